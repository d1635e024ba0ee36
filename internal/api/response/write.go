package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data with the given status. Game state changes on every
// move, so responses are never cached. Encoding happens before any header
// is sent, so an unencodable value becomes a plain 500.
func JSON(w http.ResponseWriter, status int, data any) {
	var body []byte
	if data != nil {
		var err error
		body, err = json.Marshal(data)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
