package soaperrors

import (
	"fmt"
)

// BadRequestError describes a request that is invalid before touching the
// transport: malformed body XML, unparsable soap header value, missing or
// undeclared attachment, or an operation name absent from the service
// definition.
type BadRequestError struct {
	Message string
	Cause   error
}

// Error text
func (e *BadRequestError) Error() string {
	return e.Message
}

// Unwrap underlying cause
func (e *BadRequestError) Unwrap() error {
	return e.Cause
}

// NewBadRequestError builds a request validation error
func NewBadRequestError(format string, args ...interface{}) *BadRequestError {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// SoapFaultError carries a protocol fault returned by the remote service.
// Subcode, Node and Role are SOAP 1.2 concepts and stay empty under 1.1.
type SoapFaultError struct {
	Code    string
	Subcode string
	Reason  string
	Detail  string
	Node    string
	Role    string
}

// Error text
func (e *SoapFaultError) Error() string {
	if "" == e.Code {
		return e.Reason
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Reason)
}

// ServiceError wraps an unexpected transport or runtime failure that is not
// classifiable as a protocol fault, naming the failing operation.
type ServiceError struct {
	Operation string
	Message   string
	Cause     error
}

// Error text
func (e *ServiceError) Error() string {
	if nil != e.Cause {
		return fmt.Sprintf("%s with error:%v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap underlying cause
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError builds a service error for one operation
func NewServiceError(operation string, cause error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   fmt.Sprintf("An unexpected error occurred while consuming the [%s] web service operation", operation),
		Cause:     cause,
	}
}

// DispatchingError is raised by a message dispatcher when the underlying
// transport could not carry the message at all. The client surfaces it
// unchanged.
type DispatchingError struct {
	Message string
	Cause   error
}

// Error text
func (e *DispatchingError) Error() string {
	if nil != e.Cause {
		return fmt.Sprintf("%s with error:%v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap underlying cause
func (e *DispatchingError) Unwrap() error {
	return e.Cause
}

// NewDispatchingError builds a dispatching error
func NewDispatchingError(message string, cause error) *DispatchingError {
	return &DispatchingError{Message: message, Cause: cause}
}

// UnknownOperationError is raised on the metadata path when the requested
// operation name is not present in the interface description.
type UnknownOperationError struct {
	Operation string
}

// Error text
func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("the [%s] operation is not present in the service definition", e.Operation)
}
