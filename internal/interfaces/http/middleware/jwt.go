package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	appidentity "github.com/courseplatform/backend/internal/application/identity"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/infrastructure/auth"
	"github.com/courseplatform/backend/internal/infrastructure/logger"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTSessionKey = "jwt_session"
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator verifies a bearer token against the current user state
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*appidentity.Session, error)
}

// JWTAuth authenticates the bearer token of every request.
// Besides the signature it checks revocation, the user's status and the
// token version, so a banned user or a changed password takes effect at once.
func JWTAuth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, dto.MsgMissingAuthHeader)
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, dto.MsgInvalidAuthHeader)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, dto.MsgInvalidAuthHeader)
			return
		}

		session, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				log.Warn("JWT authentication failed",
					zap.String("code", domainErr.Code),
					zap.String("message", domainErr.Message),
					zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Message))
				return
			}
			log.Error("Session check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MsgInternalError))
			return
		}

		userID := session.UserID.String()
		c.Set(JWTSessionKey, session)
		c.Set(JWTClaimsKey, session.Claims)
		c.Set(JWTUserIDKey, userID)
		c.Set(JWTRoleKey, string(session.Role))
		c.Set(logger.GinUserIDKey, userID)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles only lets requests through whose verified role is listed.
// It must run after JWTAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			abortUnauthorized(c, dto.MsgMissingAuthHeader)
			return
		}
		if _, ok := allowed[string(session.Role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.MsgAdminRequired))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
}

// GetSession retrieves the authenticated session from gin.Context
func GetSession(c *gin.Context) *appidentity.Session {
	if v, exists := c.Get(JWTSessionKey); exists {
		if session, ok := v.(*appidentity.Session); ok {
			return session
		}
	}
	return nil
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetUserUUID retrieves the authenticated user's ID
func GetUserUUID(c *gin.Context) (uuid.UUID, bool) {
	session := GetSession(c)
	if session == nil {
		return uuid.Nil, false
	}
	return session.UserID, true
}
