package http

import (
	"context"
	"net/http"
	"strings"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/security"
)

type contextKey string

const (
	contextKeyStaffID contextKey = "staff_id"
	contextKeyRole    contextKey = "staff_role"
)

// AuthMiddleware validates the bearer token and injects the staff identity
// into the request context.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, domain.ErrUnauthorized)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(w, security.ErrWrongTokenType)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyStaffID, claims.StaffID)
		ctx = context.WithValue(ctx, contextKeyRole, domain.StaffRole(claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffIDFromContext returns the authenticated staff user's id.
func StaffIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(contextKeyStaffID).(int32)
	return id, ok
}

// RoleFromContext returns the authenticated staff user's role.
func RoleFromContext(ctx context.Context) (domain.StaffRole, bool) {
	role, ok := ctx.Value(contextKeyRole).(domain.StaffRole)
	return role, ok
}

// RequireRole rejects requests whose authenticated role is not one of the
// allowed set. Admins pass every check.
func RequireRole(allowed ...domain.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				writeError(w, domain.ErrUnauthorized)
				return
			}
			if role == domain.StaffRoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "insufficient role"})
		})
	}
}
