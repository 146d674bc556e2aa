package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/store/memstore"
)

type memCollaborators struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]models.Review
	tags    map[string]models.Tag
	users   map[uuid.UUID]*models.User
}

func (m *memCollaborators) Create(_ context.Context, authorID uuid.UUID, description string, rating float64) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := models.Review{ID: uuid.New(), CreatorID: authorID, Description: description, Rating: rating}
	m.reviews[r.ID] = r
	return &r, nil
}

func (m *memCollaborators) Remove(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reviews, id)
	return nil
}

func (m *memCollaborators) GetByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, services.ErrReviewNotFound
	}
	return &r, nil
}

func (m *memCollaborators) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, id := range ids {
		if r, ok := m.reviews[id]; ok {
			if u, ok := m.users[r.CreatorID]; ok {
				c := *u
				r.Creator = &c
			}
			out = append(out, r)
		}
	}
	return out, nil
}

type memTags struct{ *memCollaborators }

func (m memTags) GetByLabel(_ context.Context, label string) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[label]
	if !ok {
		return nil, services.ErrTagNotFound
	}
	return &t, nil
}

func (m memTags) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tag{}
	for _, t := range m.tags {
		for _, id := range ids {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (m memTags) Create(_ context.Context, label string, seeded bool) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := models.Tag{ID: uuid.New(), Label: label, Seeded: seeded}
	m.tags[label] = t
	return &t, nil
}

func (m memTags) Remove(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for label, t := range m.tags {
		if t.ID == id {
			delete(m.tags, label)
		}
	}
	return nil
}

type memUsers struct{ *memCollaborators }

func (m memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m memUsers) AdjustReputation(_ context.Context, id uuid.UUID, increase bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return services.ErrUserNotFound
	}
	if increase {
		u.Reputation++
	} else {
		u.Reputation--
	}
	return nil
}

type testServer struct {
	app   *fiber.App
	cfg   *config.Config
	mem   *memCollaborators
	store *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{JWTSecret: "handler-test-secret", JWTAccessExpiry: time.Hour}
	mem := &memCollaborators{
		reviews: map[uuid.UUID]models.Review{},
		tags:    map[string]models.Tag{},
		users:   map[uuid.UUID]*models.User{},
	}
	spots := memstore.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewSpotService(spots, mem, memTags{mem}, memUsers{mem}, services.SpotOptions{}, log)
	query := services.NewSpotQueryService(spots, mem, memTags{mem}, memUsers{mem})
	h := NewSpotHandler(svc, query)

	app := fiber.New()
	jwt := middleware.JWTProtected(cfg)
	app.Get("/api/health", NewHealthHandler(nil, "memory", spots).Check)
	app.Get("/api/spots", h.List)
	app.Get("/api/spots/bounds", h.InBounds)
	app.Get("/api/spots/tag/:label", h.ByTag)
	app.Get("/api/spots/review/:id", h.ByReview)
	app.Get("/api/spots/:id", h.Get)
	app.Post("/api/spots", jwt, h.Create)
	app.Post("/api/spots/:id/reviews", jwt, h.AddReview)
	app.Post("/api/spots/:id/reports", jwt, h.Report)
	app.Delete("/api/spots/:id", jwt, h.Delete)
	app.Get("/api/users/:id/spots", h.ByCreator)

	return &testServer{app: app, cfg: cfg, mem: mem, store: spots}
}

func (s *testServer) user(t *testing.T, reputation int) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	s.mem.mu.Lock()
	s.mem.users[id] = &models.User{ID: id, Username: "user" + id.String()[:6], Reputation: reputation}
	s.mem.mu.Unlock()
	token, err := services.SignAccessToken(s.cfg, id, id.String()+"@spotmap.dev")
	if err != nil {
		t.Fatalf("SignAccessToken: %v", err)
	}
	return id, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return v
}

func createBody(title string, rating float64) map[string]any {
	return map[string]any{
		"title":       title,
		"latitude":    40.11,
		"longitude":   -88.22,
		"tag":         "Study",
		"description": "quiet corner",
		"rating":      rating,
	}
}

func TestCreateAndGetSpot(t *testing.T) {
	s := newTestServer(t)
	creator, token := s.user(t, 0)

	status, body := s.do(t, http.MethodPost, "/api/spots", token, createBody("Third Floor Nook", 4))
	if status != fiber.StatusCreated {
		t.Fatalf("create: want=201 got=%d body=%s", status, body)
	}
	created := decode[dto.SpotResponse](t, body)
	if created.CreatorID != creator || created.Floor != "1" || created.Rating != 4 || len(created.ReviewIDs) != 1 {
		t.Fatalf("unexpected spot: %+v", created)
	}

	status, body = s.do(t, http.MethodGet, "/api/spots/"+created.ID.String(), "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("get: want=200 got=%d", status)
	}
	got := decode[dto.SpotResponse](t, body)
	if len(got.Reviews) != 1 || got.Reviews[0].Creator == nil || got.Reviews[0].Creator.ID != creator {
		t.Fatalf("reviews not hydrated: %+v", got.Reviews)
	}
}

func TestCreateSpotErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, 0)
	s.do(t, http.MethodPost, "/api/spots", token, createBody("Taken", 3))

	cases := []struct {
		name     string
		token    string
		body     map[string]any
		wantCode int
		wantKind string
	}{
		{"no token", "", createBody("Fresh", 3), fiber.StatusUnauthorized, ""},
		{"rating out of range", token, createBody("Fresh", 7), fiber.StatusBadRequest, "validation"},
		{"bad title", token, createBody("No!", 3), fiber.StatusBadRequest, "validation"},
		{"duplicate title", token, createBody("Taken", 3), fiber.StatusBadRequest, "conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.do(t, http.MethodPost, "/api/spots", tc.token, tc.body)
			if status != tc.wantCode {
				t.Fatalf("status: want=%d got=%d body=%s", tc.wantCode, status, body)
			}
			if tc.wantKind != "" {
				if got := decode[dto.ErrorResponse](t, body); got.Kind != tc.wantKind || !got.Error {
					t.Fatalf("kind: want=%s got=%+v", tc.wantKind, got)
				}
			}
		})
	}
}

func TestReviewDeleteAndReportFlow(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.user(t, 0)
	_, reviewerToken := s.user(t, 0)
	_, heavyToken := s.user(t, 50)

	_, body := s.do(t, http.MethodPost, "/api/spots", ownerToken, createBody("Sunroom", 4))
	spot := decode[dto.SpotResponse](t, body)
	base := "/api/spots/" + spot.ID.String()

	status, _ := s.do(t, http.MethodPost, base+"/reviews", ownerToken, map[string]any{"rating": 5})
	if status != fiber.StatusForbidden {
		t.Fatalf("self review: want=403 got=%d", status)
	}

	status, body = s.do(t, http.MethodPost, base+"/reviews", reviewerToken, map[string]any{"rating": 2, "description": "drafty"})
	if status != fiber.StatusCreated {
		t.Fatalf("review: want=201 got=%d body=%s", status, body)
	}
	if added := decode[dto.AddReviewResponse](t, body); added.Spot.Rating != 3 {
		t.Fatalf("rating: want=3 got=%v", added.Spot.Rating)
	}

	status, _ = s.do(t, http.MethodDelete, base, reviewerToken, nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("delete by non-creator: want=403 got=%d", status)
	}

	status, body = s.do(t, http.MethodPost, base+"/reports", heavyToken, nil)
	if status != fiber.StatusOK {
		t.Fatalf("report: want=200 got=%d body=%s", status, body)
	}
	if got := decode[dto.ReportResponse](t, body); !got.Removed {
		t.Fatalf("reputation 50 should remove the spot")
	}

	status, _ = s.do(t, http.MethodGet, base, "", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("removed spot: want=404 got=%d", status)
	}
	status, _ = s.do(t, http.MethodDelete, base, ownerToken, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("delete removed spot: want=404 got=%d", status)
	}
}

func TestDeleteSpotByCreator(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, 0)
	_, body := s.do(t, http.MethodPost, "/api/spots", token, createBody("Alcove", 4))
	spot := decode[dto.SpotResponse](t, body)

	status, _ := s.do(t, http.MethodDelete, "/api/spots/"+spot.ID.String(), token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("delete: want=200 got=%d", status)
	}
	if s.store.Len() != 0 {
		t.Fatalf("spot still stored")
	}
}

func TestQueries(t *testing.T) {
	s := newTestServer(t)
	creator, token := s.user(t, 0)
	_, body := s.do(t, http.MethodPost, "/api/spots", token, createBody("Courtyard", 4))
	spot := decode[dto.SpotResponse](t, body)

	status, body := s.do(t, http.MethodGet, "/api/spots/bounds?min_lat=40&max_lat=41&min_lng=-89&max_lng=-88", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("bounds: want=200 got=%d body=%s", status, body)
	}
	if list := decode[dto.SpotListResponse](t, body); list.Total != 1 || list.Spots[0].Tag == nil {
		t.Fatalf("bounds: want one hydrated spot, got=%+v", list)
	}

	status, _ = s.do(t, http.MethodGet, "/api/spots/bounds?min_lat=40&max_lat=41", "", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("missing bounds: want=400 got=%d", status)
	}
	status, _ = s.do(t, http.MethodGet, "/api/spots/bounds?min_lat=x&max_lat=41&min_lng=-89&max_lng=-88", "", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("non-numeric bound: want=400 got=%d", status)
	}

	status, body = s.do(t, http.MethodGet, "/api/spots/review/"+spot.ReviewIDs[0].String(), "", nil)
	if got := decode[dto.SpotLookupResponse](t, body); status != fiber.StatusOK || got.Spot == nil || got.Spot.ID != spot.ID {
		t.Fatalf("by review: status=%d body=%s", status, body)
	}
	status, _ = s.do(t, http.MethodGet, "/api/spots/review/"+uuid.NewString(), "", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("unknown review: want=404 got=%d", status)
	}

	status, body = s.do(t, http.MethodGet, "/api/users/"+creator.String()+"/spots", "", nil)
	if list := decode[dto.SpotListResponse](t, body); status != fiber.StatusOK || list.Total != 1 {
		t.Fatalf("by creator: status=%d body=%s", status, body)
	}

	status, body = s.do(t, http.MethodGet, "/api/spots", "", nil)
	if list := decode[dto.SpotListResponse](t, body); status != fiber.StatusOK || list.Total != 1 {
		t.Fatalf("list: status=%d body=%s", status, body)
	}

	status, _ = s.do(t, http.MethodGet, "/api/spots/not-a-uuid", "", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("bad id: want=400 got=%d", status)
	}
}

func TestHealthReportsStoreDriver(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/health", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("health: want=200 got=%d", status)
	}
	got := decode[dto.HealthResponse](t, body)
	if got.Store != "memory" || got.StoreDB != "ok" || got.Status != "ok" {
		t.Fatalf("unexpected health: %+v", got)
	}
}

func TestSpotsByTagLabelWithSpace(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, 0)

	body := createBody("Bean Counter", 5)
	body["tag"] = "Coffee Shop"
	status, raw := s.do(t, http.MethodPost, "/api/spots", token, body)
	if status != fiber.StatusCreated {
		t.Fatalf("create: want=201 got=%d body=%s", status, raw)
	}
	created := decode[dto.SpotResponse](t, raw)

	status, raw = s.do(t, http.MethodGet, "/api/spots/tag/Coffee%20Shop", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("by tag: want=200 got=%d body=%s", status, raw)
	}
	list := decode[dto.SpotListResponse](t, raw)
	if list.Total != 1 || list.Spots[0].ID != created.ID {
		t.Fatalf("by tag: want [%s] got=%+v", created.ID, list)
	}

	status, _ = s.do(t, http.MethodGet, "/api/spots/tag/Tea%20House", "", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("unknown tag: want=404 got=%d", status)
	}
}

func TestNilSpotIDIsNotFound(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, 0)
	if status, raw := s.do(t, http.MethodPost, "/api/spots", token, createBody("Corner Nook", 4)); status != fiber.StatusCreated {
		t.Fatalf("create: want=201 got=%d body=%s", status, raw)
	}

	nilPath := "/api/spots/" + uuid.Nil.String()
	if status, raw := s.do(t, http.MethodGet, nilPath, "", nil); status != fiber.StatusNotFound {
		t.Fatalf("get: want=404 got=%d body=%s", status, raw)
	}
	if status, _ := s.do(t, http.MethodDelete, nilPath, token, nil); status != fiber.StatusNotFound {
		t.Fatalf("delete: want=404 got=%d", status)
	}
	if s.store.Len() != 1 {
		t.Fatalf("existing spot must survive: len=%d", s.store.Len())
	}
}
