package dto

import "net/http"

// Response status series reported in every envelope.
const (
	StatusSuccessful   = "SUCCESSFUL"
	StatusClientError  = "CLIENT_ERROR"
	StatusUnauthorized = "UNAUTHORIZED"
	StatusForbidden    = "FORBIDDEN"
	StatusServerError  = "SERVER_ERROR"
)

// Envelope is the uniform JSON body of every API response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success wraps payloads in a successful envelope; message is the reason phrase of code.
func Success(code int, data ...any) Envelope {
	if data == nil {
		data = []any{}
	}
	return Envelope{
		Status:  StatusSuccessful,
		Message: reasonPhrase(code),
		Data:    data,
	}
}

// Failure builds an error envelope. Data is always null.
func Failure(code int, message string) Envelope {
	return Envelope{Status: Series(code), Message: message}
}

// Series names the status family of an HTTP code.
func Series(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return StatusUnauthorized
	case code == http.StatusForbidden:
		return StatusForbidden
	case code >= 500:
		return StatusServerError
	case code >= 400:
		return StatusClientError
	default:
		return StatusSuccessful
	}
}

// reasonPhrase renders codes as upper-case constants, e.g. 201 -> CREATED.
func reasonPhrase(code int) string {
	switch code {
	case http.StatusOK:
		return "OK"
	case http.StatusCreated:
		return "CREATED"
	case http.StatusAccepted:
		return "ACCEPTED"
	case http.StatusNoContent:
		return "NO_CONTENT"
	}
	return http.StatusText(code)
}
