// Package cloud contains the primitives shared by every resource kind of the
// compute abstraction: tags, requirement levels, localized terms, lazy
// sequences and the error taxonomy.
package cloud

import (
	"errors"
	"fmt"
)

// Base errors
var (
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrInternal              = errors.New("internal abstraction error")
	ErrProvider              = errors.New("cloud provider error")
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidOptions        = errors.New("invalid options")
)

// OperationNotSupportedError is returned when a provider does not implement
// an operation. Resource is the plural resource noun ("AffinityGroups") and
// Action is the past participle of the verb ("created").
type OperationNotSupportedError struct {
	Provider string
	Resource string
	Action   string
}

func (e *OperationNotSupportedError) Error() string {
	provider := e.Provider
	if provider == "" {
		provider = "this cloud"
	}
	return fmt.Sprintf("%s cannot be %s in %s", e.Resource, e.Action, provider)
}

// Is reports ErrOperationNotSupported as the error kind.
func (e *OperationNotSupportedError) Is(target error) bool {
	return target == ErrOperationNotSupported
}

// NewOperationNotSupportedError creates a new OperationNotSupportedError
func NewOperationNotSupportedError(provider, resource, action string) *OperationNotSupportedError {
	return &OperationNotSupportedError{
		Provider: provider,
		Resource: resource,
		Action:   action,
	}
}

// InternalError represents a defect within the abstraction layer or in an
// adapter's use of it, such as malformed options. Not retryable.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("internal error [op=%s]", e.Op)
	}
	return fmt.Sprintf("internal error [op=%s]: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is reports ErrInternal as the error kind.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// NewInternalError creates a new InternalError
func NewInternalError(op string, err error) *InternalError {
	return &InternalError{
		Op:  op,
		Err: err,
	}
}

// ProviderError represents a rejection or failure reported by the remote
// cloud. Retry policy belongs to the adapter.
type ProviderError struct {
	Provider string
	Op       string
	Code     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error [provider=%s, op=%s, code=%s]: %v",
			e.Provider, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("provider error [provider=%s, op=%s]: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports ErrProvider as the error kind.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// NewProviderError creates a new ProviderError
func NewProviderError(provider, op, code string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Code:     code,
		Err:      err,
	}
}

// IsNotSupported reports whether err signals an unimplemented operation.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrOperationNotSupported)
}
