package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mindnest/wellness/pkg/jwt"
	"github.com/mindnest/wellness/pkg/response"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// TokenQueryParam carries the access token where headers cannot be set (websocket upgrades)
	TokenQueryParam = "token"
	// ContextUserID is the context key for user ID
	ContextUserID = "user_id"
	// ContextUsername is the context key for username
	ContextUsername = "username"
	// ContextEmail is the context key for email
	ContextEmail = "email"
	// ContextClaims is the context key for the validated token claims
	ContextClaims = "claims"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *jwt.JWTManager) gin.HandlerFunc {
	return authenticate(jwtManager, false)
}

// WebSocketAuthMiddleware also accepts the token from the query string
func WebSocketAuthMiddleware(jwtManager *jwt.JWTManager) gin.HandlerFunc {
	return authenticate(jwtManager, true)
}

func authenticate(jwtManager *jwt.JWTManager, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := jwt.ExtractBearer(c.GetHeader(AuthorizationHeader))
		if errors.Is(err, jwt.ErrMissingToken) && allowQuery {
			if q := c.Query(TokenQueryParam); q != "" {
				tokenString, err = q, nil
			}
		}
		if err != nil {
			if errors.Is(err, jwt.ErrMissingToken) {
				response.Unauthorized(c, "missing authorization header")
			} else {
				response.Unauthorized(c, "invalid authorization header format")
			}
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("Token validation failed")
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Unauthorized(c, "token has expired")
			} else {
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}

		// Set user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// GetUserID retrieves the user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetUsername retrieves the username from context
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// GetClaims retrieves the validated token claims from context
func GetClaims(c *gin.Context) *jwt.Claims {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil
	}
	claims, _ := value.(*jwt.Claims)
	return claims
}
