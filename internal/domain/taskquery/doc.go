// Package taskquery implements the task listing pipeline (priority and due
// date filtering, sorting, pagination) and free-text search over task
// entries. Every store backend must agree with the semantics defined here;
// the in-memory backends call these functions directly, the SQL backends
// translate Params into queries.
package taskquery
