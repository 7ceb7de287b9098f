// Package auth hashes user passwords with bcrypt.
package auth
