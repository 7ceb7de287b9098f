// Package sqlite implements the task and user stores on SQLite through gorm.
//
// Filtering, sorting and pagination are pushed into SQL. Timestamps are
// always written in UTC so that their text form orders chronologically.
package sqlite
