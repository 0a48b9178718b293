// Package credstore persists the single bearer token the SDK authenticates with.
//
// A Store holds zero or one token. Implementations never cache the token in
// memory on behalf of the caller: every Retrieve reads the backing storage, so
// several Stores (or processes) pointed at the same storage agree on the session.
package credstore

import (
	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
)

// DefaultKey is the identifier the token is stored under.
const DefaultKey = "accessToken"

// Status codes carried by errors.StorageError.Code.
const (
	StatusOK         = 0
	StatusNotFound   = 1
	StatusDataTooBig = 2
	StatusIO         = 3
	StatusCrypto     = 4
	StatusInvalid    = 5
)

// Store is the persistent home of the bearer token.
type Store interface {
	// Store replaces the stored token. Failures are *errors.StorageError.
	Store(token string) error
	// Retrieve returns the stored token. A missing or unreadable token is reported
	// as ok == false, never as an error.
	Retrieve() (token string, ok bool)
	// Delete removes the token. Deleting an absent token succeeds.
	Delete() error
}

func storageError(op string, code int, err error) error {
	return &pkgerrs.StorageError{Operation: op, Code: code, Err: err}
}
