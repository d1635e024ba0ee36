package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/tictactoe-go/internal/api/apierr"
	"github.com/mcoot/tictactoe-go/internal/middleware"
)

// Recovery answers a panicking handler with INTERNAL_ERROR.
// Event streams get no body: their headers and earlier events are already
// on the wire, so the connection is just closed.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), writePanicResponse)
}

func writePanicResponse(w http.ResponseWriter, r *http.Request, _ any) {
	if isEventStream(r) {
		return
	}
	apierr.WriteError(w, apierr.NewInternalError())
}

func isEventStream(r *http.Request) bool {
	return strings.HasSuffix(r.URL.Path, "/events") ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
