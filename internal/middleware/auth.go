package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hr-compliance-api/internal/auth"
	"github.com/hr-compliance-api/internal/domain"
)

type ctxKey string

const ctxCaller ctxKey = "caller"

// CallerFrom извлекает вызывающего из контекста запроса
func CallerFrom(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(ctxCaller).(domain.Caller)
	return caller, ok
}

// Auth разбирает сессионный токен из заголовка Authorization или
// cookie "session" и помещает вызывающего в контекст.
// Запрос без валидного токена проходит дальше неаутентифицированным
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			} else if c, err := r.Cookie("session"); err == nil {
				token = c.Value
			}

			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := auth.ParseToken(secret, token)
			if err != nil {
				// Сбрасываем битую или истёкшую cookie
				http.SetCookie(w, &http.Cookie{
					Name:     "session",
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxCaller, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth отклоняет запросы без аутентифицированного вызывающего
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CallerFrom(r.Context()); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required","code":"UNAUTHENTICATED"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles пропускает запрос только при совпадении роли вызывающего
// с одной из разрешённых
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"authentication required","code":"UNAUTHENTICATED"}`))
				return
			}
			if _, ok := allowed[caller.Role]; !ok {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","code":"FORBIDDEN"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
