// Package types holds the JSON envelopes shared by every HTTP surface.
package types

// SuccessEnvelope wraps all 2xx response bodies.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error payload. Details carries structured
// context (field errors, stock shortfalls) only for codes that allow it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps all non-2xx response bodies.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatusMessage is the body for acknowledgement-only responses such as
// logout and delete.
type StatusMessage struct {
	Status string `json:"status"`
}

// Status builds an acknowledgement payload.
func Status(status string) StatusMessage {
	return StatusMessage{Status: status}
}
