package middleware

import (
	"net/http"
	"runtime/debug" // stack of the panicking goroutine

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware returns a gin.HandlerFunc (middleware) that recovers from panics
// within a handler, logs the panic with a stack trace and the request id,
// and turns it into a 500 for that request only.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Log the panic value with the stack trace of this goroutine.
				logger.Error("Panic recovered",
					zap.Any("error", err),                                  // the panic value itself
					zap.String("stacktrace", string(debug.Stack())),        // where it happened
					zap.String("request_id", c.GetString(RequestIDHeader)), // set by RequestID()
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)

				// Only write a body if the handler has not started the response.
				// A second WriteHeader would be ignored by net/http anyway.
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{
						"error":   true,
						"message": "Internal Server Error",
					})
				}

				// Stop the remaining handlers of the chain.
				c.Abort()
			}
		}()

		// Call the next handler in the chain.
		// A panic further down is caught by the deferred function above.
		c.Next()
	}
}
