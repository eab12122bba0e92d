package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "damsole_sid"
	SessionHeaderName = "X-Session-ID"
	sessionCookieAge  = 30 * 24 * time.Hour
)

type contextKey int

const sessionIDKey contextKey = iota

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// SessionIDFromContext returns the conversation identity set by Identity.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

func validSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// Identity resolves the conversation identity of each request. A non-empty
// shared key wins; otherwise the X-Session-ID header, then the session cookie,
// then a freshly issued cookie. A per-visitor id is echoed in the X-Session-ID
// response header for clients that cannot keep cookies.
func Identity(shared string, secure bool) func(http.Handler) http.Handler {
	shared = strings.TrimSpace(shared)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := shared
			if id == "" {
				id = sessionIDFromRequest(w, r, secure)
				w.Header().Set(SessionHeaderName, id)
			}
			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromRequest(w http.ResponseWriter, r *http.Request, secure bool) string {
	if h := strings.TrimSpace(r.Header.Get(SessionHeaderName)); validSessionID(h) {
		return h
	}

	id := ""
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		Expires:  time.Now().Add(sessionCookieAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	return id
}
