package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	Tiers   map[int]membership.Tier
	Members map[string]*membership.MemberProfile
	Saved   int
}

func (m *MockStore) ListTiers(ctx context.Context) ([]membership.Tier, error) {
	var out []membership.Tier
	for level := 1; level <= 6; level++ {
		if t, ok := m.Tiers[level]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockStore) GetTier(ctx context.Context, level int) (*membership.Tier, error) {
	if t, ok := m.Tiers[level]; ok {
		return &t, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) UpsertTier(ctx context.Context, t *membership.Tier) error {
	m.Tiers[t.Level] = *t
	return nil
}

func (m *MockStore) ListAllMembers(ctx context.Context) ([]membership.MemberProfile, error) {
	var out []membership.MemberProfile
	for _, p := range m.Members {
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockStore) ListMembers(ctx context.Context, q listing.Query) (listing.Page[membership.MemberProfile], error) {
	all, _ := m.ListAllMembers(ctx)
	return listing.Page[membership.MemberProfile]{Data: all, Total: int64(len(all)), TotalPages: 1}, nil
}

func (m *MockStore) GetMember(ctx context.Context, id string) (*membership.MemberProfile, error) {
	if p, ok := m.Members[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) CreateMember(ctx context.Context, p *membership.MemberProfile) error {
	p.ID = "m-new"
	m.Members[p.ID] = p
	return nil
}

func (m *MockStore) SaveMember(ctx context.Context, p *membership.MemberProfile) error {
	m.Saved++
	m.Members[p.ID] = p
	return nil
}

func (m *MockStore) DeleteMember(ctx context.Context, id string) error {
	if _, ok := m.Members[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Members, id)
	return nil
}

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func setup() (*gin.Engine, *MockStore) {
	gin.SetMode(gin.TestMode)
	m := &MockStore{
		Tiers: map[int]membership.Tier{
			1: {Level: 1, Name: "일반회원", Color: "#999999", AnnualFee: 50000},
			3: {Level: 3, Name: "추천작가", Color: "#B8860B", AnnualFee: 150000},
		},
		Members: map[string]*membership.MemberProfile{
			"p1": {ID: "p1", Name: "김하나", TierLevel: 1, Status: membership.StatusPendingApproval},
			"p2": {ID: "p2", Name: "이둘", TierLevel: 3, Status: membership.StatusActive},
		},
	}
	h := NewHandler(m)
	h.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/tiers", h.Tiers)
	r.PUT("/admin/tiers/:level", h.UpdateTier)
	r.GET("/admin/members/stats", h.Stats)
	r.POST("/admin/members", h.Create)
	r.PUT("/admin/members/:id", h.Update)
	r.DELETE("/admin/members/:id", h.Delete)
	r.POST("/admin/members/:id/approve", h.Action(membership.ActionApprove))
	r.POST("/admin/members/:id/suspend", h.Action(membership.ActionSuspend))
	return r, m
}

func do(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTiers(t *testing.T) {
	r, _ := setup()
	w := do(r, http.MethodGet, "/tiers", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []membership.Tier `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, 1, body.Data[0].Level)
}

func TestUpdateTier(t *testing.T) {
	r, m := setup()

	w := do(r, http.MethodPut, "/admin/tiers/2", `{"name":"정회원","annual_fee":100000,"benefits":["전시 참여"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#999999", m.Tiers[2].Color)
	assert.Equal(t, []string{"전시 참여"}, []string(m.Tiers[2].Benefits))

	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPut, "/admin/tiers/9", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPut, "/admin/tiers/2", `{"name":"x","annual_fee":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/admin/tiers/two", `{"name":"x"}`).Code)
}

func TestStats(t *testing.T) {
	r, _ := setup()
	w := do(r, http.MethodGet, "/admin/members/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats membership.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalMembers)
	t3, ok := stats.TierInfo(3)
	require.True(t, ok)
	assert.Equal(t, 50.0, t3.Percentage)
}

func TestCreate(t *testing.T) {
	r, m := setup()

	w := do(r, http.MethodPost, "/admin/members", `{"name":"박셋","email":"park@example.kr","status":"active"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	p := m.Members["m-new"]
	require.NotNil(t, p)
	assert.Equal(t, 1, p.TierLevel)
	require.NotNil(t, p.ExpiresAt)
	assert.Equal(t, now.Add(membership.MembershipTerm), *p.ExpiresAt)

	w = do(r, http.MethodPost, "/admin/members", `{"name":"최넷","tier_level":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/admin/members", `{"name":"최넷","email":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestActions(t *testing.T) {
	r, m := setup()

	w := do(r, http.MethodPost, "/admin/members/p1/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, membership.StatusActive, m.Members["p1"].Status)
	require.NotNil(t, m.Members["p1"].JoinedAt)

	w = do(r, http.MethodPost, "/admin/members/p1/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/admin/members/p2/suspend", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, membership.StatusSuspended, m.Members["p2"].Status)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/admin/members/zz/approve", "").Code)
	assert.Equal(t, 2, m.Saved)
}

func TestUpdateAndDelete(t *testing.T) {
	r, m := setup()

	w := do(r, http.MethodPut, "/admin/members/p2", `{"name":"이둘","phone":"010-0000-0000","contribution_score":7}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, m.Members["p2"].TierLevel)
	assert.Equal(t, 7, m.Members["p2"].ContributionScore)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/admin/members/p2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/admin/members/p2", "").Code)
}
