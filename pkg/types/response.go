// Package types holds the wire shapes shared across the HTTP surface.
package types

// SuccessEnvelope wraps every successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details carries field-level
// validation output when the error code permits it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed JSON response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds the failure payload for a code and message.
func NewErrorEnvelope(code, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message}}
}
