package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Error describes a failed load. StatusCode is zero for transport failures.
type Error struct {
	Key        string
	StatusCode int
	Status     string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %d %s", e.Key, e.StatusCode, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.Key)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports whether the remote side answered 404.
func (e *Error) NotFound() bool { return e.StatusCode == http.StatusNotFound }

func asFetchError(key string, err error) *Error {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		if fetchErr.Key == "" {
			fetchErr.Key = key
		}
		return fetchErr
	}
	return &Error{Key: key, Err: err}
}
