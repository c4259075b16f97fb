package middleware

import (
	"io"
	"net/http"
)

// MaxRequestBodyBytes caps what a handler may read from a request body.
// A workout with a few hundred sets is still far below it.
const MaxRequestBodyBytes = 1 << 20

// DrainAndCloseRequest limits the request body to maxBodyBytes, and once the
// handler is done, drains up to that limit and closes the body so the
// connection can be reused.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			body := r.Body
			r.Body = http.MaxBytesReader(w, body, maxBodyBytes)
			next.ServeHTTP(w, r)

			_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
			_ = body.Close()
		})
	}
}
