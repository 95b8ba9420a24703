package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coursefit-backend/internal/shared/auth"
	"coursefit-backend/internal/shared/server/respond"
	"coursefit-backend/internal/shared/telemetry"
)

const (
	staffIDKey      = "staffId"
	staffEmailKey   = "staffEmail"
	staffNameKey    = "staffName"
	staffRoleKey    = "staffRole"
	staffTeacherKey = "staffTeacher"
	tokenIDKey      = "tokenId"
	tokenExpiryKey  = "tokenExpiry"
)

// StaffAuth validates bearer JWTs and stores the staff identity in context.
// Revoked tokens are rejected when a revoker is configured.
func StaffAuth(issuer *auth.Issuer, revoker auth.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				telemetry.Error("auth.revocation_check_failed", telemetry.Fields{
					"request_id": RequestIDFromContext(c),
					"error":      err,
				})
				respond.Error(c, http.StatusInternalServerError, "internal_error", "could not verify session", nil)
				return
			}
			if revoked {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "session has ended", nil)
				return
			}
		}

		c.Set(staffIDKey, claims.Subject)
		c.Set(staffRoleKey, claims.Role)
		c.Set(tokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(tokenExpiryKey, claims.ExpiresAt.Time)
		}
		if claims.Email != "" {
			c.Set(staffEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(staffNameKey, claims.Name)
		}
		if claims.Teacher != "" {
			c.Set(staffTeacherKey, claims.Teacher)
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[StaffRoleFromContext(c)]; !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "insufficient role", nil)
			return
		}
		c.Next()
	}
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// StaffIDFromContext fetches the staff ID set by the auth middleware.
func StaffIDFromContext(c *gin.Context) string { return contextString(c, staffIDKey) }

// StaffEmailFromContext fetches the staff email set by the auth middleware.
func StaffEmailFromContext(c *gin.Context) string { return contextString(c, staffEmailKey) }

// StaffNameFromContext fetches the staff display name set by the auth middleware.
func StaffNameFromContext(c *gin.Context) string { return contextString(c, staffNameKey) }

// StaffRoleFromContext fetches the staff role set by the auth middleware.
func StaffRoleFromContext(c *gin.Context) string { return contextString(c, staffRoleKey) }

// StaffTeacherFromContext fetches the roster label bound to the staff account.
func StaffTeacherFromContext(c *gin.Context) string { return contextString(c, staffTeacherKey) }

// TokenFromContext returns the token id and its expiry for logout.
func TokenFromContext(c *gin.Context) (string, time.Time) {
	id := contextString(c, tokenIDKey)
	if c == nil {
		return id, time.Time{}
	}
	val, _ := c.Get(tokenExpiryKey)
	exp, _ := val.(time.Time)
	return id, exp
}
