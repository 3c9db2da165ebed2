package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserRoleKey  = "userRole"
)

// AccessTokenParser validates an access token and returns its claims.
type AccessTokenParser interface {
	ParseAccessToken(token string) (*helpers.AccessClaims, error)
}

// Auth accepts an access token from the Authorization bearer header or the
// access_token cookie. On success it stores the user id, email and role in
// the Gin context.
func Auth(parser AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(helpers.AccessTokenCookie)
		}
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := parser.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID())
		c.Set(CtxUserEmailKey, claims.Email)
		c.Set(CtxUserRoleKey, claims.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireRole lets the request through only when Auth stored one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden", nil)
	}
}

// UserID returns the id stored by Auth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
