package http

import (
	"encoding/json"
	"net/http"
)

// bodyMessage is the plain-text error envelope the web client expects.
type bodyMessage struct {
	Body string `json:"body"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, bodyMessage{Body: msg})
}
