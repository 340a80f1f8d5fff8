package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/auth"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	logFieldsCtxKey
)

// AuthUser is the identity resolved from a bearer token.
type AuthUser struct {
	ID    string
	Name  string
	Email string
}

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

func UserFromContext(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(userCtxKey).(AuthUser)
	return u, ok && u.ID != ""
}

func WithUser(ctx context.Context, u AuthUser) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// RequireAuth rejects requests without a valid bearer token before they reach
// the handler.
func RequireAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed bearer token")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			user := AuthUser{ID: claims.UserID, Name: claims.Name, Email: claims.Email}
			if lf, ok := r.Context().Value(logFieldsCtxKey).(*logFields); ok {
				lf.setUserID(user.ID)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// logFields lets handlers deeper in the chain add fields to the access log
// line written by RequestLogger.
type logFields struct {
	mu     sync.Mutex
	userID string
}

func (l *logFields) setUserID(id string) {
	l.mu.Lock()
	l.userID = id
	l.mu.Unlock()
}

func (l *logFields) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.userID
}

// RequestLogger writes one line per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			lf := &logFields{}
			r = r.WithContext(context.WithValue(r.Context(), logFieldsCtxKey, lf))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := logrus.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      status,
					"bytes":       ww.BytesWritten(),
					"duration_ms": time.Since(start).Milliseconds(),
					"remote_addr": r.RemoteAddr,
				}
				if uid := lf.get(); uid != "" {
					fields["user_id"] = uid
				}

				entry := log.WithContext(r.Context()).WithFields(fields)
				switch {
				case status >= 500:
					entry.Error("request completed")
				case status >= 400:
					entry.Warn("request completed")
				default:
					entry.Info("request completed")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// RequestIDHeader echoes the request id assigned by middleware.RequestID.
func RequestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

// BodyLimit caps request bodies at n bytes.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && n > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
