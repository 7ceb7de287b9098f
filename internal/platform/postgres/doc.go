// Package postgres implements the task and user stores on PostgreSQL using
// sqlx over the pgx stdlib driver.
//
// List and Search build their SQL dynamically with positional placeholders.
// Text ordering uses the "C" collation so that rows sort by byte value, the
// same order the in-process pipeline produces. The schema is embedded and
// applied with goose by Migrate.
package postgres
