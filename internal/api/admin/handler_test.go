package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	Users   []users.User
	Members map[uint]membership.MemberProfile
}

func (m *MockStore) ListTiers(ctx context.Context) ([]membership.Tier, error) {
	return []membership.Tier{{Level: 1, Name: "일반회원"}, {Level: 2, Name: "정회원"}}, nil
}

func (m *MockStore) ListAllMembers(ctx context.Context) ([]membership.MemberProfile, error) {
	var out []membership.MemberProfile
	for _, p := range m.Members {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockStore) ListUsers(ctx context.Context, q listing.Query) (listing.Page[users.User], error) {
	return listing.Paginate(m.Users, q.Page, q.PageSize), nil
}

func (m *MockStore) GetUser(ctx context.Context, id uint) (*users.User, error) {
	for _, u := range m.Users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetMemberByUserID(ctx context.Context, userID uint) (*membership.MemberProfile, error) {
	if p, ok := m.Members[userID]; ok {
		return &p, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) ListMemberPayments(ctx context.Context, memberID string) ([]billing.Payment, error) {
	return []billing.Payment{{ID: 1, MemberID: memberID, AmountKRW: 100000, Status: billing.StatusPaid}}, nil
}

func (m *MockStore) SetUserRole(ctx context.Context, id uint, role string) error {
	for i := range m.Users {
		if m.Users[i].ID == id {
			m.Users[i].Role = role
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeCounter struct{}

func (fakeCounter) DashboardCounts(ctx context.Context, now time.Time) (store.DashboardCounts, error) {
	return store.DashboardCounts{Artists: 12, Artworks: 40, Members: 2}, nil
}

func newStore() *MockStore {
	return &MockStore{
		Users: []users.User{
			{ID: 1, Name: "관리자", Email: "admin@example.kr", Role: users.RoleAdmin},
			{ID: 2, Name: "김서예", Email: "kim@example.kr", Role: users.RoleMember},
		},
		Members: map[uint]membership.MemberProfile{
			2: {ID: "m2", Name: "김서예", TierLevel: 2, Status: membership.StatusActive},
			3: {ID: "m3", Name: "무계정", TierLevel: 1, Status: membership.StatusActive},
		},
	}
}

func setupRouter(s *MockStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, fakeCounter{}, "ko")

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", users.RoleAdmin)
		c.Next()
	})
	r.GET("/admin/dashboard", h.AdminDashboard)
	r.GET("/admin/users", h.ListAllUsers)
	r.GET("/admin/users/:id", h.GetUserDetails)
	r.PUT("/admin/users/:id/role", h.SetRole)
	return r
}

func do(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAdminDashboard(t *testing.T) {
	w := do(setupRouter(newStore()), http.MethodGet, "/admin/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Counts  store.DashboardCounts `json:"counts"`
		Members membership.Stats      `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(12), body.Counts.Artists)
	assert.Equal(t, 2, body.Members.TotalMembers)

	t2, ok := body.Members.TierInfo(2)
	require.True(t, ok)
	assert.Equal(t, 50.0, t2.Percentage)
}

func TestListAllUsers(t *testing.T) {
	w := do(setupRouter(newStore()), http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page listing.Page[AdminUser]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "admin@example.kr", page.Data[0].Email)
}

func TestGetUserDetails(t *testing.T) {
	r := setupRouter(newStore())

	w := do(r, http.MethodGet, "/admin/users/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		User     AdminUser                 `json:"user"`
		Member   *membership.MemberProfile `json:"member"`
		Payments []billing.Payment         `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Member)
	assert.Equal(t, "m2", body.Member.ID)
	assert.Len(t, body.Payments, 1)

	w = do(r, http.MethodGet, "/admin/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"member":null`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/admin/users/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/admin/users/abc", "").Code)
}

func TestSetRole(t *testing.T) {
	s := newStore()
	r := setupRouter(s)

	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/admin/users/2/role", `{"role":"admin"}`).Code)
	assert.Equal(t, users.RoleAdmin, s.Users[1].Role)

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPut, "/admin/users/1/role", `{"role":"member"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPut, "/admin/users/2/role", `{"role":"owner"}`).Code)
}
