package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/access"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type MockStore struct {
	Users   map[uint]users.User
	Members map[uint]*membership.MemberProfile
	Saved   *membership.MemberProfile
}

func (m *MockStore) GetUser(ctx context.Context, id uint) (*users.User, error) {
	if u, ok := m.Users[id]; ok {
		return &u, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetMemberByUserID(ctx context.Context, userID uint) (*membership.MemberProfile, error) {
	if p, ok := m.Members[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetTier(ctx context.Context, level int) (*membership.Tier, error) {
	if level == 2 {
		return &membership.Tier{Level: 2, Name: "정회원", Color: "#4169E1", AnnualFee: 100000}, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) SaveMember(ctx context.Context, p *membership.MemberProfile) error {
	m.Saved = p
	return nil
}

func newStore() *MockStore {
	expires := now.Add(10 * 24 * time.Hour)
	joined := now.AddDate(-1, 0, 10)
	return &MockStore{
		Users: map[uint]users.User{
			1: {ID: 1, Email: "admin@seoye.kr", Role: users.RoleAdmin},
			2: {ID: 2, Email: "kim@seoye.kr", Role: users.RoleMember, AuthProvider: users.ProviderKakao},
			3: {ID: 3, Email: "lee@seoye.kr", Role: users.RoleMember},
		},
		Members: map[uint]*membership.MemberProfile{
			2: {ID: "m2", Name: "김회원", Email: "kim@seoye.kr", TierLevel: 2, Status: membership.StatusActive, JoinedAt: &joined, ExpiresAt: &expires},
			3: {ID: "m3", Name: "이정지", TierLevel: 1, Status: membership.StatusSuspended},
		},
	}
}

func setup(m *MockStore, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(m)
	h.now = func() time.Time { return now }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.GET("/me", h.Me)
	r.PUT("/me/profile", h.UpdateProfile)
	return r
}

func getMe(t *testing.T, r *gin.Engine) MeResponse {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMe_Member(t *testing.T) {
	resp := getMe(t, setup(newStore(), 2))

	assert.Equal(t, "kim@seoye.kr", resp.User.Email)
	assert.False(t, resp.User.HasPassword)
	require.NotNil(t, resp.Member)
	assert.Equal(t, "active", resp.Member.Status)
	require.NotNil(t, resp.Tier)
	assert.Equal(t, "정회원", resp.Tier.Name)
	require.NotNil(t, resp.Membership)
	require.NotNil(t, resp.Membership.DaysLeft)
	assert.Equal(t, 10, *resp.Membership.DaysLeft)
	assert.Equal(t, string(access.AccessMember), resp.Access.State)
	assert.True(t, resp.Access.RenewalDue)
}

func TestMe_AdminWithoutProfile(t *testing.T) {
	resp := getMe(t, setup(newStore(), 1))

	assert.Nil(t, resp.Member)
	assert.Nil(t, resp.Tier)
	assert.Nil(t, resp.Membership)
	assert.Equal(t, string(access.AccessAdmin), resp.Access.State)
	assert.Contains(t, resp.Access.Capabilities, access.CapManageMembers)
}

func TestMe_Unauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	setup(newStore(), 0).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func putProfile(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/me/profile", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateProfile(t *testing.T) {
	m := newStore()
	w := putProfile(setup(m, 2), `{"name":"김회원","email":"kim@seoye.kr","phone":"010-1111-2222","introduction":"행서를 씁니다"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, m.Saved)
	assert.Equal(t, "010-1111-2222", m.Saved.Phone)
	assert.Equal(t, 2, m.Saved.TierLevel)
	assert.Equal(t, membership.StatusActive, m.Saved.Status)

	assert.Equal(t, http.StatusForbidden, putProfile(setup(newStore(), 3), `{"name":"이정지"}`).Code)
	assert.Equal(t, http.StatusNotFound, putProfile(setup(newStore(), 1), `{"name":"관리자"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, putProfile(setup(newStore(), 2), `{"name":"김","email":"bad"}`).Code)
}
