package health

import "net/http"

// Liveness reports that the process is running. Always "ALIVE" with 200 OK.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ALIVE")
}

// NoContent replies 204 without a body.
func NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
