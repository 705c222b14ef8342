// Package respond writes the JSON bodies shared by every API route.
//
// Route handlers answer with a single-field object. Most routes use the
// "general" field; the users routes use "message". Keep the field a route
// uses stable, clients match on it.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body with the given status.
// A 204 never carries a body.
func JSON(w http.ResponseWriter, status int, v any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// General writes {"general": msg}.
func General(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"general": msg})
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Field writes {field: msg} for validation errors tied to one input field.
func Field(w http.ResponseWriter, status int, field, msg string) {
	JSON(w, status, map[string]string{field: msg})
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
