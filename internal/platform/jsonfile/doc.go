// Package jsonfile persists tasks and users as JSON arrays on disk.
//
// The stores wrap the memory package: reads are served from memory and
// every mutation rewrites the whole file before it becomes visible. Files
// are replaced atomically by writing a temporary sibling and renaming it.
package jsonfile
