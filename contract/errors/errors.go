package errors

import "strings"

// Configuration defect reasons. Keep stable; used across registry, servicebus and tests.
const (
	ReasonNoModulesProvided         = "NoModulesProvided"
	ReasonInvalidDescriptor         = "InvalidDescriptor"
	ReasonDecoratorNotOpenGeneric   = "DecoratorNotOpenGeneric"
	ReasonDecoratorContractMismatch = "DecoratorContractMismatch"
	ReasonNoMatchingHandlers        = "NoMatchingHandlers"
	ReasonNoHandlersFound           = "NoHandlersFound"
	ReasonHandlerNotFound           = "HandlerNotFound"
	ReasonAmbiguousHandler          = "AmbiguousHandler"
	ReasonHandlerTypeMismatch       = "HandlerTypeMismatch"
)

// Relay error codes, returned by forwarding handlers and broker adapters. These are faults,
// not configuration defects.
const (
	ErrCodePublisherNotConfigured = "relay.publisher_not_configured"
	ErrCodePublishFailed          = "relay.publish_failed"
	ErrCodeSerializationFailed    = "relay.serialization_failed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrNoModulesProvided         = Code(ReasonNoModulesProvided)
	ErrInvalidDescriptor         = Code(ReasonInvalidDescriptor)
	ErrDecoratorNotOpenGeneric   = Code(ReasonDecoratorNotOpenGeneric)
	ErrDecoratorContractMismatch = Code(ReasonDecoratorContractMismatch)
	ErrNoMatchingHandlers        = Code(ReasonNoMatchingHandlers)
	ErrNoHandlersFound           = Code(ReasonNoHandlersFound)
	ErrHandlerNotFound           = Code(ReasonHandlerNotFound)
	ErrAmbiguousHandler          = Code(ReasonAmbiguousHandler)
	ErrHandlerTypeMismatch       = Code(ReasonHandlerTypeMismatch)

	ErrPublisherNotConfigured = Code(ErrCodePublisherNotConfigured)
	ErrPublishFailed          = Code(ErrCodePublishFailed)
	ErrSerializationFailed    = Code(ErrCodeSerializationFailed)
)

// ConfigurationError reports broken wiring: a missing, duplicate or malformed registration.
// It is never a business outcome. errors.Is matches it against the Err* value of its Reason.
type ConfigurationError struct {
	Reason  string
	Subject string
}

// Configuration builds a *ConfigurationError for reason about subject.
func Configuration(reason, subject string) error {
	return &ConfigurationError{Reason: reason, Subject: subject}
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder

	b.WriteString("configuration error: ")
	b.WriteString(e.Reason)

	if e.Subject != "" {
		b.WriteString(": ")
		b.WriteString(e.Subject)
	}

	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return Code(e.Reason) }
