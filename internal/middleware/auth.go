package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	"github.com/cprservices/clinic-scheduler/internal/config"
)

const (
	ContextUserID      = "userID"
	ContextUserRole    = "userRole"
	ContextTherapistID = "therapistID"
)

const (
	RoleAdmin       = "admin"
	RoleSecretariat = "secretariat"
	RoleTherapist   = "therapist"
)

// AuthMiddleware validates the bearer token and exposes the caller's
// identity (id, role, optional therapist id) to the handlers. The
// scheduling engine itself is role-agnostic; handlers use these values
// only to scope which appointments a caller may list or modify.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		role, ok2 := claims["role"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)

		// Downstream audit events record who acted.
		c.Request = c.Request.WithContext(audit.WithUser(c.Request.Context(), uint(userID)))

		if therapistID, ok := claims["therapistId"].(float64); ok && therapistID > 0 {
			c.Set(ContextTherapistID, uint(therapistID))
		}

		c.Next()
	}
}

// CallerTherapistID returns the therapist bound to the caller, or 0 for
// admin/secretariat users.
func CallerTherapistID(c *gin.Context) uint {
	if v, ok := c.Get(ContextTherapistID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
