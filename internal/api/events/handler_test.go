package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

type MockStore struct {
	Events      map[string]*events.Event
	Exhibitions map[string]*events.Exhibition
	Regs        []events.EventRegistration
	Created     *events.Event
	LinkedWorks []string
}

func (m *MockStore) ListPublishedEvents(ctx context.Context) ([]events.Event, error) {
	var out []events.Event
	for _, e := range m.Events {
		if e.Published {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *MockStore) ListEvents(ctx context.Context, q listing.Query) (listing.Page[events.Event], error) {
	return listing.Page[events.Event]{}, nil
}

func (m *MockStore) GetEvent(ctx context.Context, id string) (*events.Event, error) {
	if e, ok := m.Events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) CreateEvent(ctx context.Context, e *events.Event) error {
	e.ID = "e-new"
	m.Created = e
	return nil
}

func (m *MockStore) UpdateEvent(ctx context.Context, e *events.Event) error { return nil }
func (m *MockStore) DeleteEvent(ctx context.Context, id string) error     { return nil }

func (m *MockStore) RegisterForEvent(ctx context.Context, eventID string, reg *events.EventRegistration, now time.Time) (*events.Event, error) {
	e, ok := m.Events[eventID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := e.CanRegister(now); err != nil {
		return nil, err
	}
	reg.EventID = eventID
	m.Regs = append(m.Regs, *reg)
	e.RegisteredCount++
	cp := *e
	return &cp, nil
}

func (m *MockStore) ListRegistrations(ctx context.Context, eventID string) ([]events.EventRegistration, error) {
	return m.Regs, nil
}

func (m *MockStore) ListPublishedExhibitions(ctx context.Context) ([]events.Exhibition, error) {
	var out []events.Exhibition
	for _, x := range m.Exhibitions {
		if x.Published {
			out = append(out, *x)
		}
	}
	return out, nil
}

func (m *MockStore) ListExhibitions(ctx context.Context, q listing.Query) (listing.Page[events.Exhibition], error) {
	return listing.Page[events.Exhibition]{}, nil
}

func (m *MockStore) GetExhibition(ctx context.Context, id string) (*events.Exhibition, error) {
	if x, ok := m.Exhibitions[id]; ok {
		return x, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) CreateExhibition(ctx context.Context, x *events.Exhibition, artistIDs, artworkIDs []string) error {
	x.ID = "x-new"
	m.LinkedWorks = artworkIDs
	return nil
}

func (m *MockStore) UpdateExhibition(ctx context.Context, x *events.Exhibition, artistIDs, artworkIDs []string) error {
	return nil
}
func (m *MockStore) DeleteExhibition(ctx context.Context, id string) error { return nil }

type fakeGeo struct{ calls int }

func (g *fakeGeo) Configured() bool { return true }
func (g *fakeGeo) Geocode(ctx context.Context, address string) (*kakao.Coordinates, error) {
	g.calls++
	if address == "nowhere" {
		return nil, kakao.ErrAddressNotFound
	}
	return &kakao.Coordinates{Address: address, Latitude: 37.57, Longitude: 126.98}, nil
}

func tp(t time.Time) *time.Time { return &t }

func newMock() *MockStore {
	return &MockStore{
		Events: map[string]*events.Event{
			"open": {ID: "open", Title: "서예 워크숍", Category: events.CategoryWorkshop, StartAt: now.Add(72 * time.Hour),
				Published: true, RegistrationOpen: true, Capacity: 2},
			"full": {ID: "full", Title: "특강", Category: events.CategoryLecture, StartAt: now.Add(48 * time.Hour),
				Published: true, RegistrationOpen: true, Capacity: 1, RegisteredCount: 1},
			"late": {ID: "late", Title: "시상식", Category: events.CategoryCeremony, StartAt: now.Add(24 * time.Hour),
				Published: true, RegistrationOpen: true, RegistrationDeadline: tp(now.Add(-time.Hour))},
			"draft": {ID: "draft", Title: "준비중", StartAt: now.Add(24 * time.Hour), RegistrationOpen: true},
			"past": {ID: "past", Title: "지난 행사", Category: events.CategoryMeeting, StartAt: now.Add(-72 * time.Hour),
				EndAt: tp(now.Add(-70 * time.Hour)), Published: true},
		},
		Exhibitions: map[string]*events.Exhibition{
			"x1": {ID: "x1", Title: "봄 회원전", StartAt: now.Add(-24 * time.Hour), EndAt: tp(now.Add(24 * time.Hour)), Published: true},
			"x2": {ID: "x2", Title: "가을 초대전", StartAt: now.Add(30 * 24 * time.Hour), Published: true},
		},
	}
}

func setupRouter(m *MockStore, geo Geocoder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(m, geo, "ko")
	h.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/events", h.ListEvents)
	r.GET("/events/:id", h.GetEvent)
	r.POST("/events/:id/register", h.Register)
	r.GET("/exhibitions", h.ListExhibitions)
	r.POST("/admin/events", h.CreateEvent)
	r.POST("/admin/exhibitions", h.CreateExhibition)
	r.GET("/admin/events/:id/registrations", h.Registrations)
	return r
}

func do(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestListEvents_StatusFilter(t *testing.T) {
	r := setupRouter(newMock(), nil)

	w := do(r, http.MethodGet, "/events?status=upcoming&sort=oldest", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page listing.Page[EventDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 3)
	assert.Equal(t, "late", page.Data[0].ID)
	assert.Equal(t, "open", page.Data[2].ID)

	w = do(r, http.MethodGet, "/events?status=ended", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, events.StatusEnded, page.Data[0].Status)
}

func TestGetEvent_Draft404(t *testing.T) {
	r := setupRouter(newMock(), nil)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/events/draft", "").Code)

	w := do(r, http.MethodGet, "/events/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dto EventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, 2, dto.SpotsLeft)
	assert.True(t, dto.CanApply)
}

func TestRegister(t *testing.T) {
	m := newMock()
	r := setupRouter(m, nil)

	w := do(r, http.MethodPost, "/events/open/register", `{"name":"홍길동","phone":"010-1234-5678"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, m.Regs, 1)
	assert.Equal(t, "open", m.Regs[0].EventID)
	assert.Equal(t, 1, m.Events["open"].RegisteredCount)

	cases := map[string]int{
		"full":    http.StatusConflict,
		"late":    http.StatusConflict,
		"draft":   http.StatusConflict,
		"missing": http.StatusNotFound,
	}
	for id, want := range cases {
		w := do(r, http.MethodPost, "/events/"+id+"/register", `{"name":"홍길동","email":"a@b.kr"}`)
		assert.Equal(t, want, w.Code, id)
	}

	w = do(r, http.MethodPost, "/events/open/register", `{"name":"연락처 없음"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRegister_FullMessage(t *testing.T) {
	r := setupRouter(newMock(), nil)

	w := do(r, http.MethodPost, "/events/full/register", `{"name":"홍길동","email":"a@b.kr"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, events.ErrEventFull.Error(), body["error"])
}

func TestCreateEvent_Geocodes(t *testing.T) {
	m := newMock()
	geo := &fakeGeo{}
	r := setupRouter(m, geo)

	body := `{"title":"정기총회","start_at":"2025-05-01T10:00:00Z","address":"서울 종로구 인사동길 1"}`
	w := do(r, http.MethodPost, "/admin/events", body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, m.Created)
	require.NotNil(t, m.Created.Latitude)
	assert.Equal(t, 37.57, *m.Created.Latitude)
	assert.True(t, m.Created.RegistrationOpen)
	assert.Equal(t, events.CategoryOther, m.Created.Category)

	body = `{"title":"정기총회","start_at":"2025-05-01T10:00:00Z","address":"nowhere"}`
	w = do(r, http.MethodPost, "/admin/events", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, m.Created.Latitude)
	assert.Equal(t, 2, geo.calls)
}

func TestCreateEvent_Invalid(t *testing.T) {
	r := setupRouter(newMock(), nil)

	body := `{"title":"역순","start_at":"2025-05-02T10:00:00Z","end_at":"2025-05-01T10:00:00Z"}`
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodPost, "/admin/events", body).Code)
}

func TestListExhibitions_Ongoing(t *testing.T) {
	r := setupRouter(newMock(), nil)

	w := do(r, http.MethodGet, "/exhibitions?status=ongoing", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page listing.Page[ExhibitionDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "x1", page.Data[0].ID)
	assert.Empty(t, page.Data[0].Artists)
}

func TestCreateExhibition_PassesLinks(t *testing.T) {
	m := newMock()
	r := setupRouter(m, nil)

	body := `{"title":"회원전","start_at":"2025-06-01T00:00:00Z","artwork_ids":["w1","w2"]}`
	w := do(r, http.MethodPost, "/admin/exhibitions", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"w1", "w2"}, m.LinkedWorks)
}

func TestRegistrations(t *testing.T) {
	m := newMock()
	r := setupRouter(m, nil)
	do(r, http.MethodPost, "/events/open/register", `{"name":"홍길동","phone":"010"}`)

	w := do(r, http.MethodGet, "/admin/events/open/registrations", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data  []events.EventRegistration `json:"data"`
		Total int                        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "홍길동", body.Data[0].Name)
}
