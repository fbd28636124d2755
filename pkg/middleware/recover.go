package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tempohq/tempo/pkg/logger"
	"github.com/tempohq/tempo/pkg/response"
)

// Recovery catches any panic in downstream handlers, logs the stack trace,
// and answers with a 500. Add it early in the chain so it wraps everything
// below it.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again later")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
