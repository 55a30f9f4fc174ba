package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"homeguard/pkg/config"
	tokenstore "homeguard/pkg/token"
)

const (
	ContextUserIDKey   = "current_user_id"
	ContextUserRoleKey = "current_user_role"
	ContextJTIKey      = "current_jti"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization header"})
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Set(ContextJTIKey, claims.JTI)
		c.Next()
	}
}

// Claims is the subset of the JWT this service cares about.
type Claims struct {
	UserID string
	Role   string
	JTI    string
}

// ParseToken validates an HMAC-signed token and extracts its claims. Shared
// by the HTTP middleware and the websocket handshake, which carries the token
// as a query parameter.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	jtiVal, _ := claims["jti"].(string)
	if tokenstore.IsRevoked(jtiVal) {
		return nil, jwt.ErrTokenExpired
	}

	var userID string
	if sub, ok := claims["sub"].(string); ok {
		userID = sub
	} else if subf, ok := claims["sub"].(float64); ok {
		// jwt lib may parse numeric as float64
		userID = strconv.Itoa(int(subf))
	}
	if userID == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}

	role, _ := claims["role"].(string)

	return &Claims{UserID: userID, Role: role, JTI: jtiVal}, nil
}

// RequireRole guards landlord-only endpoints like incident listing and
// calendar scheduling.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, _ := c.Get(ContextUserRoleKey)
		if got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "insufficient role"})
			return
		}
		c.Next()
	}
}
