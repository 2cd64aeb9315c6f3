package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// bearerToken extracts the token from an Authorization header, or "" when
// the header is absent or not a Bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || strings.TrimSpace(scheme) != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

func setPrincipal(c *gin.Context, claims *JWTClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUserEmail, claims.Email)
	c.Set(ctxUserRole, claims.Role)
}

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		claims, err := ValidateToken(token, accessTokenSecret)
		if err != nil {
			msg := "invalid or malformed token"
			if errors.Is(err, ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if claims.TokenType != tokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves the principal when a valid bearer token is
// present and stays silent otherwise. Used on public listing routes
// that personalize (search history) for logged-in users.
func OptionalAuth(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			claims, err := ValidateToken(token, accessTokenSecret)
			if err == nil && claims.TokenType == tokenTypeAccess {
				setPrincipal(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole runs after AuthMiddleware and rejects principals whose role
// does not match.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ctxUserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authenticated role"})
			return
		}
		if r, ok := role.(string); !ok || r != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated principal set by AuthMiddleware.
// Handlers pass this explicit ID into services and repositories; nothing
// below the handler layer reads request state.
func GetUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
