package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const secret = "test-secret"

type MockStore struct {
	Users   map[uint]*users.User
	Members []membership.MemberProfile
	nextID  uint
	Touched []uint
	Grants  map[uint]*oauth2.Token
}

func newStore() *MockStore {
	hash, _ := bcrypt.GenerateFromPassword([]byte("passw0rd!"), bcrypt.MinCost)
	pw := string(hash)
	return &MockStore{
		nextID: 10,
		Users: map[uint]*users.User{
			1: {ID: 1, Name: "관리자", Email: "admin@seoye.kr", Password: &pw, AuthProvider: users.ProviderLocal, Role: users.RoleAdmin},
			2: {ID: 2, Name: "회원", Email: "member@seoye.kr", AuthProvider: users.ProviderKakao, Role: users.RoleMember},
		},
	}
}

func (m *MockStore) GetUser(ctx context.Context, id uint) (*users.User, error) {
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetUserByKakaoSub(ctx context.Context, sub string) (*users.User, error) {
	for _, u := range m.Users {
		if u.KakaoSub != nil && *u.KakaoSub == sub {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) CreateUserWithMember(ctx context.Context, u *users.User, p *membership.MemberProfile) error {
	m.nextID++
	u.ID = m.nextID
	m.Users[u.ID] = u
	p.UserID = &u.ID
	p.ID = "member-new"
	m.Members = append(m.Members, *p)
	return nil
}

func (m *MockStore) SaveUser(ctx context.Context, u *users.User) error {
	m.Users[u.ID] = u
	return nil
}

func (m *MockStore) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	m.Touched = append(m.Touched, id)
	return nil
}

func (m *MockStore) SaveKakaoToken(ctx context.Context, userID uint, t *oauth2.Token) error {
	if m.Grants == nil {
		m.Grants = map[uint]*oauth2.Token{}
	}
	m.Grants[userID] = t
	return nil
}

type fakeKakao struct {
	claims *kakao.IDClaims
	err    error
}

func (f *fakeKakao) AuthCodeURL(state string) string {
	return "https://kauth.kakao.com/oauth/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeKakao) Exchange(ctx context.Context, code string) (*kakao.IDClaims, error) {
	return f.claims, f.err
}

func setup(m *MockStore, k KakaoLogin, redirect string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(m, k, Options{JWTSecret: secret, FrontendRedirect: redirect})

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/change-password", func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	}, h.ChangePassword)
	r.GET("/auth/kakao", h.KakaoStart)
	r.GET("/auth/kakao/callback", h.KakaoCallback)
	return r
}

func postJSON(r *gin.Engine, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func parseToken(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestLogin(t *testing.T) {
	m := newStore()
	r := setup(m, nil, "")

	w := postJSON(r, "/login", `{"email":"ADMIN@seoye.kr","password":"passw0rd!"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	claims := parseToken(t, body["token"])
	assert.EqualValues(t, 1, claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, []uint{1}, m.Touched)

	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/login", `{"email":"admin@seoye.kr","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/login", `{"email":"ghost@seoye.kr","password":"x"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/login", `{"email":"member@seoye.kr","password":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/login", `{"email":"not-an-email"}`).Code)
}

func TestChangePassword(t *testing.T) {
	m := newStore()
	r := setup(m, nil, "")

	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/change-password", `{"old_password":"passw0rd!","new_password":"short"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/change-password", `{"old_password":"nope","new_password":"newpass123"}`).Code)

	w := postJSON(r, "/change-password", `{"old_password":"passw0rd!","new_password":"newpass123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*m.Users[1].Password), []byte("newpass123")))
}

func TestKakaoStart_SetsState(t *testing.T) {
	r := setup(newStore(), &fakeKakao{}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/kakao", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, stateCookie, cookies[0].Name)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape(cookies[0].Value))
}

func callback(r *gin.Engine, state, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/kakao/callback?code=abc&state="+state, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookie})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestKakaoCallback_StateMismatch(t *testing.T) {
	r := setup(newStore(), &fakeKakao{claims: &kakao.IDClaims{Sub: "1"}}, "")
	assert.Equal(t, http.StatusBadRequest, callback(r, "s1", "s2").Code)
	assert.Equal(t, http.StatusBadRequest, callback(r, "s1", "").Code)
}

func TestKakaoCallback_CreatesPendingMember(t *testing.T) {
	m := newStore()
	r := setup(m, &fakeKakao{claims: &kakao.IDClaims{Sub: "99", Nickname: "묵향"}}, "https://seoye.kr/auth/done")

	w := callback(r, "st", "st")
	require.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://seoye.kr/auth/done?token="))

	require.Len(t, m.Members, 1)
	assert.Equal(t, membership.StatusPendingApproval, m.Members[0].Status)
	assert.Equal(t, "묵향", m.Members[0].Name)

	u := m.Users[*m.Members[0].UserID]
	assert.Equal(t, users.ProviderKakao, u.AuthProvider)
	assert.Equal(t, "kakao_99@users.kakao", u.Email)

	// second login finds the same user
	w = callback(r, "st", "st")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, m.Members, 1)
}

func TestKakaoCallback_SavesMessageGrant(t *testing.T) {
	m := newStore()
	grant := &oauth2.Token{AccessToken: "a1", RefreshToken: "r1"}
	r := setup(m, &fakeKakao{claims: &kakao.IDClaims{Sub: "55", Nickname: "난초", Token: grant}}, "")

	require.Equal(t, http.StatusOK, callback(r, "st", "st").Code)
	require.Len(t, m.Members, 1)
	assert.Same(t, grant, m.Grants[*m.Members[0].UserID])
}

func TestKakaoCallback_LinksExistingEmail(t *testing.T) {
	m := newStore()
	r := setup(m, &fakeKakao{claims: &kakao.IDClaims{Sub: "77", Email: "admin@seoye.kr"}}, "")

	w := callback(r, "st", "st")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, m.Users[1].KakaoSub)
	assert.Equal(t, "77", *m.Users[1].KakaoSub)
	assert.Empty(t, m.Members)
}

func TestKakaoCallback_ExchangeFails(t *testing.T) {
	r := setup(newStore(), &fakeKakao{err: errors.New("boom")}, "")
	assert.Equal(t, http.StatusUnauthorized, callback(r, "st", "st").Code)
}

func TestKakao_NotConfigured(t *testing.T) {
	r := setup(newStore(), nil, "")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/kakao", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
