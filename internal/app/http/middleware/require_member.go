package middleware

import (
	"context"
	"net/http"
	"time"

	"calligraphy-cms/internal/domain/access"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type MemberLookup interface {
	GetUser(ctx context.Context, id uint) (*users.User, error)
	GetMemberByUserID(ctx context.Context, userID uint) (*membership.MemberProfile, error)
}

// RequireCapability runs after AuthMiddleware and aborts unless the caller's
// access policy grants capability. The policy is left on the context as
// "access".
func RequireCapability(s MemberLookup, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		u, err := s.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			logger.Error("require capability: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		m, err := s.GetMemberByUserID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.Error("require capability: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member profile"})
			return
		}

		policy := access.ComputePolicy(time.Now(), *u, m)
		if !policy.Can(capability) {
			status := http.StatusForbidden
			msg := "Your membership does not allow this action"
			switch policy.State {
			case access.AccessGuest:
				msg = "A member profile is required"
			case access.AccessPending:
				msg = "Your membership is awaiting approval"
			case access.AccessSuspended:
				msg = "Your membership is suspended"
			case access.AccessExpired:
				status = http.StatusPaymentRequired
				msg = "Your membership has expired"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg, "access": policy})
			return
		}

		c.Set("access", policy)
		c.Next()
	}
}
