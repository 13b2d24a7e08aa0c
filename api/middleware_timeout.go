package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// timeoutWriter guards the ResponseWriter so the handler goroutine and the
// timeout path never write to it concurrently. Once the timeout response is
// sent, late handler writes are discarded.
type timeoutWriter struct {
	w http.ResponseWriter

	mutex    sync.Mutex
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.w.Header()
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	return tw.w.Write(b)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()
	if tw.timedOut {
		return
	}
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) writeTimeout() {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()
	tw.timedOut = true
	tw.w.WriteHeader(http.StatusRequestTimeout)
	tw.w.Write([]byte(`{"error": "Request timeout"}`))
}

// TimeoutMiddleware adds request timeout to prevent long-running requests
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := &timeoutWriter{w: w}

			// buffered so the handler goroutine can finish even after the
			// deadline path stops listening
			done := make(chan bool, 1)
			go func() {
				next.ServeHTTP(tw, r)
				done <- true
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					zap.S().Warnw("request timeout",
						"path", r.URL.Path,
						"method", r.Method,
						"timeout", timeout)
					tw.writeTimeout()
				}
			}
		})
	}
}
