package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

const stateCookie = "oauth_state"

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/kakao
func (h *Handler) KakaoStart(c *gin.Context) {
	if h.kakao == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Kakao login is not configured"})
		return
	}

	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// state lives in an HttpOnly cookie for five minutes
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", h.opts.SecureCookies, true)
	c.Redirect(http.StatusFound, h.kakao.AuthCodeURL(state))
}

// GET /auth/kakao/callback
func (h *Handler) KakaoCallback(c *gin.Context) {
	if h.kakao == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Kakao login is not configured"})
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.opts.SecureCookies, true)

	ctx := c.Request.Context()
	claims, err := h.kakao.Exchange(ctx, code)
	if err != nil {
		logger.Warn("kakao exchange: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to verify kakao login"})
		return
	}

	user, err := h.findOrCreateKakaoUser(ctx, claims)
	if err != nil {
		httpx.Fail(c, err, "User")
		return
	}

	if claims.Token != nil {
		if err := h.store.SaveKakaoToken(ctx, user.ID, claims.Token); err != nil {
			logger.Warn("user %d: save kakao grant: %v", user.ID, err)
		}
	}

	now := h.now()
	tokenString, err := IssueToken(h.opts.JWTSecret, *user, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}
	if err := h.store.TouchLogin(ctx, user.ID, now); err != nil {
		logger.Warn("user %d: touch login: %v", user.ID, err)
	}

	redirect := h.opts.FrontendRedirect
	if redirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString, "role": user.Role})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+url.QueryEscape(tokenString))
}

// findOrCreateKakaoUser matches by kakao sub, then by email (linking the sub),
// and otherwise creates a member user with a pending membership profile.
func (h *Handler) findOrCreateKakaoUser(ctx context.Context, kc *kakao.IDClaims) (*users.User, error) {
	user, err := h.store.GetUserByKakaoSub(ctx, kc.Sub)
	if err == nil {
		return user, nil
	}
	if !httpx.IsNotFound(err) {
		return nil, err
	}

	sub := kc.Sub
	if kc.Email != "" {
		user, err = h.store.GetUserByEmail(ctx, kc.Email)
		if err == nil {
			if user.KakaoSub == nil {
				user.KakaoSub = &sub
				if err := h.store.SaveUser(ctx, user); err != nil {
					return nil, err
				}
			}
			return user, nil
		}
		if !httpx.IsNotFound(err) {
			return nil, err
		}
	}

	email := kc.Email
	if email == "" {
		// the email scope is optional on Kakao; keep the unique column filled
		email = "kakao_" + kc.Sub + "@users.kakao"
	}
	name := strings.TrimSpace(kc.Nickname)
	if name == "" {
		name = "Kakao " + kc.Sub
	}

	user = &users.User{
		Name:         name,
		Email:        email,
		AuthProvider: users.ProviderKakao,
		KakaoSub:     &sub,
		Role:         users.RoleMember,
	}
	member := &membership.MemberProfile{
		Name:      name,
		Email:     kc.Email,
		TierLevel: membership.MinTierLevel,
		Status:    membership.StatusPendingApproval,
	}
	if err := h.store.CreateUserWithMember(ctx, user, member); err != nil {
		return nil, err
	}
	logger.Info("created kakao user %d with pending membership %s", user.ID, member.ID)
	return user, nil
}
