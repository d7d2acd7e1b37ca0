package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	auditdomain "github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	"github.com/jimmyhealer/shovel-hero/internal/identity"
	identitydomain "github.com/jimmyhealer/shovel-hero/internal/identity/domain"
	obscontext "github.com/jimmyhealer/shovel-hero/internal/observability/context"
	"github.com/jimmyhealer/shovel-hero/internal/observability/logger"
	"go.uber.org/zap"
)

const contextAdminEmailKey = "admin_email"

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		AbortWithError(c, newValidationError("email", "required", "email and password are required"))
		return
	}

	ctx := c.Request.Context()
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if err == identitydomain.ErrNotFound {
			AbortWithError(c, identitydomain.ErrInvalidCredentials)
			return
		}
		AbortWithError(c, err)
		return
	}
	if !identity.VerifyPassword(req.Password, admin.PasswordHash) {
		s.log.Warn("admin login rejected", zap.String("email", logger.MaskEmail(email)))
		AbortWithError(c, identitydomain.ErrInvalidCredentials)
		return
	}

	now := s.clock.Now()
	claims := &adminClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.admins.TouchLastLogin(ctx, admin, now); err != nil {
		s.log.Warn("last login update failed", zap.Error(err))
	}
	s.auditSvc.Record(ctx, auditdomain.ActorTypeAdmin, admin.Email, "admin.login", "admin_user", admin.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": claims.ExpiresAt.Time,
		"admin": gin.H{
			"email":       admin.Email,
			"displayName": admin.DisplayName,
		},
	})
}

// AdminRequired authenticates moderation endpoints with a bearer session
// token.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims := &adminClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Email == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextAdminEmailKey, claims.Email)
		ctx := obscontext.WithActor(c.Request.Context(), string(auditdomain.ActorTypeAdmin), claims.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) adminEmail(c *gin.Context) string {
	return c.GetString(contextAdminEmailKey)
}
