// Package domain contains the task and user entities, their validation rules
// and the errors shared by every layer. It has no knowledge of storage or
// transport.
//
// Tasks carry a Priority, a due timestamp and completion state. Partial
// updates are expressed as a TaskPatch, whose Fields method is the single
// place where completion bookkeeping is resolved, so that in-memory and SQL
// stores apply identical changes.
package domain
