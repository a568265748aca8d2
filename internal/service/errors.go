package service

import "net/http"

// ValidationError is a client-input failure with a fixed, human-readable
// reason. Reasons form a closed set: internal parser and driver diagnostics
// never reach the client.
type ValidationError struct {
	reason string
}

func (e *ValidationError) Error() string {
	return e.reason
}

var errInvalidBody = &ValidationError{reason: "invalid request body"}

var errInvalidItem = &ValidationError{reason: "invalid item"}

func errMissingField(name string) *ValidationError {
	return &ValidationError{reason: "missing field " + name}
}

func errMalformedField(name string) *ValidationError {
	return &ValidationError{reason: "malformed field " + name}
}

func writeValidationError(w http.ResponseWriter, verr *ValidationError) {
	receiptsRejected.Inc()
	http.Error(w, verr.Error(), http.StatusBadRequest)
}
