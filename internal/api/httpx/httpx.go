// Package httpx writes the API's JSON envelopes. Every response body carries
// the HTTP status it was sent with, so clients can log the outcome without
// keeping the transport status around.
package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DataResponse wraps a successful payload.
type DataResponse struct {
	Data   any `json:"data"`
	Status int `json:"status"`
}

// ErrorResponse wraps a failure message.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData sends v inside the success envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, DataResponse{Data: v, Status: status})
}

// WriteError sends msg inside the error envelope.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Status: status})
}
