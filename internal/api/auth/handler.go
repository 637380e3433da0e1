package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"calligraphy-cms/internal/api/httpx"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/infra/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type Store interface {
	GetUser(ctx context.Context, id uint) (*users.User, error)
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	GetUserByKakaoSub(ctx context.Context, sub string) (*users.User, error)
	CreateUserWithMember(ctx context.Context, u *users.User, m *membership.MemberProfile) error
	SaveUser(ctx context.Context, u *users.User) error
	TouchLogin(ctx context.Context, id uint, at time.Time) error
	SaveKakaoToken(ctx context.Context, userID uint, t *oauth2.Token) error
}

// KakaoLogin is the OIDC code flow against Kakao.
type KakaoLogin interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*kakao.IDClaims, error)
}

type Options struct {
	JWTSecret        string
	FrontendRedirect string // where the Kakao callback sends ?token=
	SecureCookies    bool
}

type Handler struct {
	store Store
	kakao KakaoLogin // nil when Kakao login is not configured
	opts  Options
	now   func() time.Time
}

func NewHandler(store Store, kakaoLogin KakaoLogin, opts Options) *Handler {
	return &Handler{store: store, kakao: kakaoLogin, opts: opts, now: time.Now}
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUserByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if !httpx.IsNotFound(err) {
			logger.Error("login lookup: %v", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Kakao sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.respondToken(c, *user)
}

func (h *Handler) respondToken(c *gin.Context, user users.User) {
	now := h.now()
	tokenString, err := IssueToken(h.opts.JWTSecret, user, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	if err := h.store.TouchLogin(c.Request.Context(), user.ID, now); err != nil {
		logger.Warn("user %d: touch login: %v", user.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "role": user.Role})
}

// POST /change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := httpx.MustUserID(c)
	if !ok {
		return
	}

	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !users.IsPasswordStrong(body.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters with letters and numbers"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// Kakao accounts may set a first password without an old one.
	if user.Password != nil && *user.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.OldPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	pw := string(hashed)
	user.Password = &pw
	if err := h.store.SaveUser(ctx, user); err != nil {
		httpx.Fail(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// HashPassword is used by the seed command.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
