// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error" example:"Aucun fichier photo n'a été reçu."`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, r *http.Request, payload interface{}) {
	JSON(w, r, http.StatusOK, payload)
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, ErrorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, message)
}

// PayloadTooLarge writes a 413 response.
func PayloadTooLarge(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusRequestEntityTooLarge, message)
}

// InternalError writes a 500 response. message must not carry internal detail.
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusInternalServerError, message)
}
