package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the service answered without content.
var ErrEmptyResponse = errors.New("no response from AI")

// ServiceError is a failure reported by the completion service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("error from completion service: %d - %s", e.StatusCode, e.Message)
}

// AsServiceError unwraps err into a *ServiceError when it is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
