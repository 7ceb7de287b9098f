// Package memory provides TaskStore and UserStore implementations backed by
// slices in process memory.
//
// Tasks are kept in ascending ID order, which is the store order the query
// pipeline expects. Every mutation builds the next state first and hands it
// to an optional persist function before committing it, which is how the
// jsonfile package makes the same stores durable.
package memory
