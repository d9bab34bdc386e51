package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/response"
)

// Recovery catches panics from downstream handlers, logs the stack trace
// and answers 500. Panic details never reach the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
