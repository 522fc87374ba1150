package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/auth"
)

// RequireAdmin only lets requests through whose bearer credential equals the
// configured admin secret. Approved requests carry auth.IsAdmin in their
// context.
func RequireAdmin(guard *auth.AdminGuard, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := guard.Authorize(r.Header.Get("Authorization")); err != nil {
				if errors.Is(err, apperrors.ErrServerMisconfigured) {
					log.Error("admin request rejected: ADMIN_PASSWORD is not configured", zap.String("path", r.URL.Path))
				} else {
					log.Info("admin request rejected", zap.String("path", r.URL.Path), zap.String("reason", string(apperrors.KindOf(err))))
				}
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAdmin(r.Context())))
		})
	}
}

// ExtractEditToken copies a bearer credential, if any, into the request
// context. Nothing is validated here; the comment service compares it with
// the stored token.
func ExtractEditToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := auth.ParseBearer(r.Header.Get("Authorization")); ok {
			r = r.WithContext(auth.WithEditToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request. Headers are never logged since
// they carry credentials.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
