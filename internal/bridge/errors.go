package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized matches bridge error type 1 (unauthorized user).
	ErrUnauthorized = errors.New("unauthorized user")
	// ErrNotFound matches bridge error type 3 (resource not available).
	ErrNotFound = errors.New("resource not available")
)

// APIError is one entry of a bridge error response.
type APIError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bridge error %d at %s: %s", e.Type, e.Address, e.Description)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Type == 1
	case ErrNotFound:
		return e.Type == 3
	default:
		return false
	}
}

// parseAPIErrors extracts the error entries of a v1 response array.
// It returns nil when body is not an array or holds no errors.
func parseAPIErrors(body []byte) error {
	var entries []struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil
	}
	var errs []error
	for _, entry := range entries {
		if entry.Error != nil {
			errs = append(errs, entry.Error)
		}
	}
	return errors.Join(errs...)
}
