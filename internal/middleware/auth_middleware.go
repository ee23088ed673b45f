package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/auth"
)

// ContextUserID is the gin context key holding the authenticated user's id
const ContextUserID = "userID"

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth requires an "Authorization: Bearer <token>" header
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		m.authenticate(c, tokenString)
	}
}

// QueryTokenAuth accepts the token from the "token" query parameter as well as the
// header. Browsers cannot set headers on websocket handshakes.
func (m *AuthMiddleware) QueryTokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			var err error
			tokenString, err = auth.ExtractBearerToken(c.GetHeader("Authorization"))
			if err != nil {
				abortUnauthorized(c, err)
				return
			}
		}
		m.authenticate(c, tokenString)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) {
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		abortUnauthorized(c, err)
		return
	}

	c.Set(ContextUserID, claims.UserID)
	c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
	c.Next()
}

func abortUnauthorized(c *gin.Context, err error) {
	code, message := dto.ErrorCodeInvalidToken, "Invalid token"
	switch {
	case apperrors.Is(err, apperrors.ErrTokenNotFound):
		code, message = dto.ErrorCodeTokenNotFound, "Authentication required"
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		code, message = dto.ErrorCodeExpiredToken, "Token has expired"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// UserID returns the authenticated user's id set by the auth middleware
func UserID(c *gin.Context) (string, bool) {
	if claims, ok := auth.ClaimsFromContext(c.Request.Context()); ok {
		return claims.UserID, true
	}
	id := c.GetString(ContextUserID)
	return id, id != ""
}
