package api

import (
	"errors"
	"fmt"
)

// StoreError is a request the store answered but refused
type StoreError struct {
	Op      string
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: store returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// RedirectError means the session expired and the user must sign in again
// at Location. It never carries task data.
type RedirectError struct {
	Op       string
	Status   int
	Location string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s: session expired, sign in at %s", e.Op, e.Location)
}

// IsRedirect reports whether err asks the caller to re-authenticate
func IsRedirect(err error) (*RedirectError, bool) {
	var re *RedirectError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsNotFound reports whether the store said the task does not exist
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Status == 404
}
