// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel errors shared across repositories so handlers
// can map failures onto the HTTP error taxonomy without string matching.
package repository

import "errors"

// ErrEmailExists is returned by account creation when the email is already
// registered. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrAccountNotFound is returned when no account row matches a lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrPetNotFound is returned when a pet does not exist or, on mutation
// paths, when it exists but belongs to a different rehomer. Handlers
// deliberately surface both as 404 so existence is not leaked.
var ErrPetNotFound = errors.New("pet not found")

// ErrAlreadyLiked is returned when an adopter likes a listing twice.
// Handlers translate it into HTTP 409.
var ErrAlreadyLiked = errors.New("already liked")
