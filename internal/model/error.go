package model

import "errors"

// Stable error kinds surfaced to the front-end. Every terminal error maps to
// exactly one of these.
const (
	KindValidation      = "ValidationError"
	KindNotFound        = "NotFoundError"
	KindConflict        = "ConflictError"
	KindExternalService = "ExternalServiceError"
	KindSigning         = "SigningError"
	KindConfiguration   = "ConfigurationError"
	KindDecryption      = "DecryptionError"
)

// ValidationError is returned when request parameters are malformed or below
// the minimum notional for the order kind.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError is returned for an unknown order token, watcher or wallet.
// An evicted token and a never-existing token look the same to the caller;
// the Evicted flag exists for diagnostics only.
type NotFoundError struct {
	Message string
	Evicted bool
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError is returned when an operation races with existing state:
// an order already in flight, a wallet that already exists, a watcher cap hit.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// ExternalServiceError wraps a venue or price-source failure. The provider
// message is preserved for the user. Retriable marks transient failures
// (timeouts, submission failures) that leave local state intact.
type ExternalServiceError struct {
	Provider  string
	Message   string
	Retriable bool
}

func (e *ExternalServiceError) Error() string {
	if e.Provider == "" {
		return e.Message
	}
	return e.Provider + ": " + e.Message
}

// SigningError is returned when a transaction cannot be parsed in any known
// encoding or the key cannot produce a signature for it.
type SigningError struct {
	Message string
}

func (e *SigningError) Error() string { return e.Message }

// ConfigurationError is returned when a required server-wide setting, such as
// the wallet secret, is absent.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// DecryptionError is returned when a stored ciphertext cannot be reversed,
// typically because it is malformed or the server secret changed.
type DecryptionError struct {
	Message string
}

func (e *DecryptionError) Error() string { return e.Message }

// KindOf maps an error to its stable kind. Unrecognized errors are reported
// as external failures so the caller always sees one of the known kinds.
func KindOf(err error) string {
	var (
		ve  *ValidationError
		nfe *NotFoundError
		ce  *ConflictError
		ese *ExternalServiceError
		se  *SigningError
		cfe *ConfigurationError
		de  *DecryptionError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &nfe):
		return KindNotFound
	case errors.As(err, &ce):
		return KindConflict
	case errors.As(err, &se):
		return KindSigning
	case errors.As(err, &cfe):
		return KindConfiguration
	case errors.As(err, &de):
		return KindDecryption
	case errors.As(err, &ese):
		return KindExternalService
	default:
		return KindExternalService
	}
}

// IsRetriable reports whether the failed action can simply be attempted again
// without any local state change.
func IsRetriable(err error) bool {
	var ese *ExternalServiceError
	if errors.As(err, &ese) {
		return ese.Retriable
	}
	return false
}

// IsNotFound checks if error is NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict checks if error is ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
