// Package service holds the application services the HTTP layer calls:
// TaskService for task queries and mutations, and UserService for
// registration. Services own the clock, validate input against the domain
// rules, and publish task lifecycle events.
package service
