package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
	RoleAdmin   = "admin"
)

func validRole(role string) bool {
	switch role {
	case RoleDoctor, RolePatient, RoleAdmin:
		return true
	}
	return false
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a Bearer token.")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "Token claims are unreadable.")
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if !validators.IsValidID(sub) || !validRole(role) {
			httperr.Unauthorized(c, "invalid_token_payload", "Token must carry a subject and a known role.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, sub)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Your role cannot perform this action.")
		c.Abort()
	}
}

// RequireDoctorSelf restricts doctor-scoped routes to that doctor. Admins
// pass through.
func RequireDoctorSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserRole(c) == RoleAdmin {
			c.Next()
			return
		}
		if UserRole(c) == RoleDoctor && UserID(c) == c.Param(param) {
			c.Next()
			return
		}
		httperr.Forbidden(c, "forbidden", "Only the doctor can manage this schedule.")
		c.Abort()
	}
}

// ValidIDParam rejects path ids that could never have been issued.
func ValidIDParam(param, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validators.IsValidID(c.Param(param)) {
			httperr.BadRequest(c, code, "Malformed id in path.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

// IssueToken signs an HS256 token carrying sub and role.
func IssueToken(secret, sub, role string, ttl time.Duration) (string, error) {
	if !validators.IsValidID(sub) {
		return "", errors.New("subject must be a non-empty id of letters, digits, '.', '_' or '-'")
	}
	if !validRole(role) {
		return "", errors.New("role must be doctor, patient or admin")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
