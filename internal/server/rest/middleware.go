package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/server/auth"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// RequestIDHeader is echoed back on every response; a fresh id is minted
// when the client does not send one.
const RequestIDHeader = "X-Request-ID"

// userIDFrom returns the authenticated user id placed by requireAuth.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func (s *HTTPServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, msgAuthRequired)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Debug(r.Context(), "rejected access token", "error", err)
			writeMessage(w, http.StatusUnauthorized, msgAuthRequired)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole loads the current user on every request so role changes take
// effect without a new token.
func (s *HTTPServer) requireRole(role string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := s.users.GetUser(r.Context(), userIDFrom(r.Context()))
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					writeMessage(w, http.StatusUnauthorized, msgAuthRequired)
					return
				}
				s.internalError(w, r, err)
				return
			}
			if user.Role != role {
				writeMessage(w, http.StatusForbidden, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe tags each request with an id, logs it and feeds the HTTP metrics,
// labelled by route template rather than raw path.
func (s *HTTPServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		took := time.Since(started)

		s.metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(took.Seconds())
		s.logger.Info(r.Context(), "request",
			"method", r.Method, "route", route, "status", rec.status, "took", took, "remote", r.RemoteAddr, "request_id", reqID)
	})
}
