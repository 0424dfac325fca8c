package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kevinaaaquil/dejapp/apperr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error        string               `json:"error"`
	Fields       map[string]string    `json:"fields,omitempty"`
	Notification *apperr.Notification `json:"notification"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its status code and user-facing notification.
func WriteError(w http.ResponseWriter, err error, fallback apperr.Notification) {
	body := ErrorBody{
		Error:        apperr.Code(err),
		Notification: apperr.Notify(err, fallback),
	}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	WriteJSON(w, apperr.Status(err), body)
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation(map[string]string{"body": "invalid_json"})
	}
	return nil
}
