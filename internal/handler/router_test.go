package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus/spacehub/internal/config"
	"campus/spacehub/internal/handler"
	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
	"campus/spacehub/internal/service"
	"campus/spacehub/internal/testfixtures"
	jwtpkg "campus/spacehub/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

type server struct {
	t      *testing.T
	h      *testfixtures.SQLiteHarness
	clock  *testfixtures.Clock
	jwt    *jwtpkg.Manager
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()

	h := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(time.Time{})
	opts := service.Options{BaseURL: "http://localhost:3000", Now: clock.NowFunc()}
	locker := repository.NewMemoryLocker(5 * time.Second)

	reservations := service.NewReservationService(h.Repositories, h.UnitOfWork, locker, opts, nil)
	invitations := service.NewInvitationService(h.Repositories, h.UnitOfWork, locker, opts, nil)
	availability := service.NewAvailabilityService(h.Repositories, opts)
	spaces := service.NewSpaceService(h.Repositories, h.UnitOfWork, locker, nil)
	floors := service.NewFloorService(h.Repositories.Floors, nil)

	jwtManager := jwtpkg.NewManager("test-signing-key", "spacehub", time.Hour)
	cfg := &config.Config{Server: config.ServerConfig{Mode: "test"}}

	router := handler.SetupRouter(cfg, zap.NewNop(), jwtManager, handler.Handlers{
		Floors:       handler.NewFloorHandler(floors),
		Spaces:       handler.NewSpaceHandler(spaces, availability),
		Reservations: handler.NewReservationHandler(reservations),
		Invitations:  handler.NewInvitationHandler(invitations),
		Admin:        handler.NewAdminHandler(reservations, spaces, floors, service.NewAnalyticsService(h.Repositories)),
	})
	return &server{t: t, h: h, clock: clock, jwt: jwtManager, router: router}
}

func (s *server) token(id uuid.UUID, role jwtpkg.Role) string {
	s.t.Helper()
	tok, err := s.jwt.GenerateAccessToken(jwtpkg.Identity{ID: id, Email: "someone@example.edu", Role: role})
	if err != nil {
		s.t.Fatalf("GenerateAccessToken: %v", err)
	}
	return tok
}

func (s *server) do(method, path, token string, body interface{}) (int, apiEnvelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, env
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	s := newServer(t)
	status, env := s.do(http.MethodGet, "/api/v1/nowhere", "", nil)
	if status != http.StatusNotFound || env.Code != 404 {
		t.Fatalf("status = %d, envelope = %+v", status, env)
	}
}

func TestReservationRoutesRequireToken(t *testing.T) {
	s := newServer(t)

	status, _ := s.do(http.MethodPost, "/api/v1/reservations", "", map[string]string{})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}

	status, _ = s.do(http.MethodGet, "/api/v1/reservations", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestCreateReservationFlow(t *testing.T) {
	s := newServer(t)
	space := s.h.CreateSpace(t, testfixtures.WithCapacity(4, 2), testfixtures.WithType(model.SpaceTypeGroupRoom))
	organizer := s.token(uuid.New(), jwtpkg.RoleStudent)

	status, env := s.do(http.MethodPost, "/api/v1/reservations", organizer, map[string]interface{}{
		"space_id":   space.ID.String(),
		"start_time": testfixtures.At(10, 0),
		"end_time":   testfixtures.At(11, 0),
		"type":       "group",
		"group_size": 3,
	})
	if status != http.StatusCreated {
		t.Fatalf("status = %d body=%+v", status, env)
	}
	var created struct {
		ID              uuid.UUID `json:"id"`
		InvitationToken string    `json:"invitation_token"`
		InvitationLink  string    `json:"invitation_link"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode reservation: %v", err)
	}
	if created.InvitationLink != "http://localhost:3000/invite/"+created.InvitationToken {
		t.Fatalf("unexpected link %q", created.InvitationLink)
	}

	status, env = s.do(http.MethodPost, "/api/v1/reservations", s.token(uuid.New(), jwtpkg.RoleStudent), map[string]interface{}{
		"space_id":   space.ID.String(),
		"start_time": testfixtures.At(10, 30),
		"end_time":   testfixtures.At(10, 45),
	})
	if status != http.StatusCreated {
		t.Fatalf("second booking status = %d body=%+v", status, env)
	}

	// Only the group overlaps 10:15-10:20: three seats taken, one left.
	status, env = s.do(http.MethodPost, "/api/v1/reservations", s.token(uuid.New(), jwtpkg.RoleStudent), map[string]interface{}{
		"space_id":   space.ID.String(),
		"start_time": testfixtures.At(10, 15),
		"end_time":   testfixtures.At(10, 20),
		"type":       "group",
		"group_size": 2,
	})
	if status != http.StatusConflict || env.Error != "BOOKING_CONFLICT" {
		t.Fatalf("group of two = %d %+v, want 409 BOOKING_CONFLICT", status, env)
	}

	status, env = s.do(http.MethodPost, "/api/v1/reservations", s.token(uuid.New(), jwtpkg.RoleStudent), map[string]interface{}{
		"space_id":   space.ID.String(),
		"start_time": testfixtures.At(10, 15),
		"end_time":   testfixtures.At(10, 20),
	})
	if status != http.StatusCreated {
		t.Fatalf("single seat = %d %+v, want 201", status, env)
	}

	status, env = s.do(http.MethodPost, "/api/v1/reservations", s.token(uuid.New(), jwtpkg.RoleStudent), map[string]interface{}{
		"space_id":   space.ID.String(),
		"start_time": testfixtures.At(10, 16),
		"end_time":   testfixtures.At(10, 18),
	})
	if status != http.StatusConflict || env.Error != "BOOKING_CONFLICT" {
		t.Fatalf("fifth seat = %d %+v, want 409 BOOKING_CONFLICT", status, env)
	}

	status, env = s.do(http.MethodGet, "/api/v1/invitations/"+created.InvitationToken, "", nil)
	if status != http.StatusOK {
		t.Fatalf("validate invitation = %d %+v", status, env)
	}

	s.clock.Advance(31 * 24 * time.Hour)
	status, env = s.do(http.MethodPost, "/api/v1/invitations/"+created.InvitationToken+"/join", s.token(uuid.New(), jwtpkg.RoleStudent), nil)
	if status != http.StatusGone || env.Error != "EXPIRED" {
		t.Fatalf("expired join = %d %+v, want 410 EXPIRED", status, env)
	}
}

func TestReservationErrorMapping(t *testing.T) {
	s := newServer(t)
	space := s.h.CreateSpace(t)
	owner := uuid.New()
	reservation := s.h.CreateReservation(t, space.ID, owner, testfixtures.At(10, 0), testfixtures.At(11, 0), 1)
	stranger := s.token(uuid.New(), jwtpkg.RoleStudent)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		reason string
	}{
		{"unknown space", http.MethodPost, "/api/v1/reservations", stranger,
			map[string]interface{}{"space_id": uuid.NewString(), "start_time": testfixtures.At(12, 0), "end_time": testfixtures.At(13, 0)},
			http.StatusNotFound, "SPACE_NOT_FOUND"},
		{"inverted range", http.MethodPost, "/api/v1/reservations", stranger,
			map[string]interface{}{"space_id": space.ID.String(), "start_time": testfixtures.At(13, 0), "end_time": testfixtures.At(12, 0)},
			http.StatusBadRequest, "INVALID_TIME_RANGE"},
		{"bad id", http.MethodGet, "/api/v1/reservations/nope", stranger, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not owner", http.MethodGet, "/api/v1/reservations/" + reservation.ID.String(), stranger, nil, http.StatusForbidden, "FORBIDDEN"},
		{"cancel not owner", http.MethodDelete, "/api/v1/reservations/" + reservation.ID.String(), stranger, nil, http.StatusForbidden, "FORBIDDEN"},
		{"missing reservation", http.MethodGet, "/api/v1/reservations/" + uuid.NewString(), stranger, nil, http.StatusNotFound, "RESERVATION_NOT_FOUND"},
		{"bad status filter", http.MethodGet, "/api/v1/reservations?status=pending", stranger, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown token", http.MethodGet, "/api/v1/invitations/missing", "", nil, http.StatusNotFound, "INVALID_TOKEN"},
		{"bad date", http.MethodGet, "/api/v1/spaces/" + space.ID.String() + "/availability?date=03-02-2026", "", nil, http.StatusBadRequest, "INVALID_DATE_FORMAT"},
		{"bad datetime", http.MethodGet, "/api/v1/availability?datetime=soon", "", nil, http.StatusBadRequest, "INVALID_DATETIME"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := s.do(tc.method, tc.path, tc.token, tc.body)
			if status != tc.status || env.Error != tc.reason {
				t.Fatalf("got %d %q (%s), want %d %q", status, env.Error, env.Message, tc.status, tc.reason)
			}
		})
	}

	ownerToken := s.token(owner, jwtpkg.RoleStudent)
	status, _ := s.do(http.MethodDelete, "/api/v1/reservations/"+reservation.ID.String(), ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("owner cancel = %d", status)
	}
	status, env := s.do(http.MethodDelete, "/api/v1/reservations/"+reservation.ID.String(), ownerToken, nil)
	if status != http.StatusConflict || env.Error != "ALREADY_CANCELLED" {
		t.Fatalf("repeat cancel = %d %+v", status, env)
	}
}

func TestPublicSpaceRoutes(t *testing.T) {
	s := newServer(t)
	space := s.h.CreateSpace(t, testfixtures.WithName("Library Desk"))
	s.h.CreateReservation(t, space.ID, uuid.New(), testfixtures.At(9, 0), testfixtures.At(10, 30), 1)

	status, env := s.do(http.MethodGet, "/api/v1/spaces?search=library", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list spaces = %d", status)
	}
	var meta struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(env.Meta, &meta); err != nil || meta.Total != 1 {
		t.Fatalf("meta = %s err=%v", env.Meta, err)
	}

	status, env = s.do(http.MethodGet, "/api/v1/spaces/"+space.ID.String()+"/availability?date=2026-03-02", "", nil)
	if status != http.StatusOK {
		t.Fatalf("day availability = %d", status)
	}
	var grid service.DayAvailability
	if err := json.Unmarshal(env.Data, &grid); err != nil {
		t.Fatalf("decode grid: %v", err)
	}
	if len(grid.Slots) != 14 || grid.Slots[1].Status != model.AvailabilityOccupied || grid.Slots[2].Status != model.AvailabilityOccupied {
		t.Fatalf("unexpected grid %+v", grid.Slots)
	}

	status, env = s.do(http.MethodGet, "/api/v1/availability?datetime=2026-03-02T09:30:00Z", "", nil)
	if status != http.StatusOK {
		t.Fatalf("snapshot = %d %+v", status, env)
	}
	var snapshot service.AvailabilitySnapshot
	if err := json.Unmarshal(env.Data, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snapshot.Spaces) != 1 || snapshot.Spaces[0].Status != model.AvailabilityOccupied {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)
	admin := s.token(uuid.New(), jwtpkg.RoleAdmin)
	student := s.token(uuid.New(), jwtpkg.RoleStudent)

	status, _ := s.do(http.MethodGet, "/api/v1/admin/stats/reservations", student, nil)
	if status != http.StatusForbidden {
		t.Fatalf("student stats = %d, want 403", status)
	}

	status, env := s.do(http.MethodPost, "/api/v1/admin/spaces", admin, map[string]interface{}{
		"name":         "Seminar Room",
		"type":         "group-room",
		"capacity":     8,
		"min_capacity": 3,
	})
	if status != http.StatusCreated {
		t.Fatalf("create space = %d %+v", status, env)
	}
	var space model.Space
	if err := json.Unmarshal(env.Data, &space); err != nil {
		t.Fatalf("decode space: %v", err)
	}

	status, env = s.do(http.MethodPost, "/api/v1/admin/spaces", admin, map[string]interface{}{
		"name": "Broken", "capacity": 2, "min_capacity": 3,
	})
	if status != http.StatusBadRequest || env.Error != "VALIDATION_ERROR" {
		t.Fatalf("invalid space = %d %+v", status, env)
	}

	status, env = s.do(http.MethodPost, "/api/v1/admin/spaces/"+space.ID.String()+"/unavailable", admin, map[string]interface{}{
		"reason":     "Exams",
		"start_date": testfixtures.At(8, 0),
	})
	if status != http.StatusOK {
		t.Fatalf("mark unavailable = %d %+v", status, env)
	}
	status, _ = s.do(http.MethodPost, "/api/v1/admin/spaces/"+space.ID.String()+"/available", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("mark available = %d", status)
	}

	reservation := s.h.CreateReservation(t, space.ID, uuid.New(), testfixtures.At(10, 0), testfixtures.At(11, 0), 3)
	status, env = s.do(http.MethodPost, "/api/v1/admin/reservations/"+reservation.ID.String()+"/cancel", admin, map[string]string{})
	if status != http.StatusBadRequest {
		t.Fatalf("cancel without reason = %d %+v", status, env)
	}
	status, env = s.do(http.MethodPost, "/api/v1/admin/reservations/"+reservation.ID.String()+"/cancel", admin, map[string]string{"reason": "Double booked"})
	if status != http.StatusOK {
		t.Fatalf("admin cancel = %d %+v", status, env)
	}

	status, env = s.do(http.MethodGet, "/api/v1/admin/reservations/"+reservation.ID.String(), admin, nil)
	if status != http.StatusOK {
		t.Fatalf("admin get = %d", status)
	}
	var details struct {
		CancellationInfo *service.CancellationInfo `json:"cancellation_info"`
	}
	if err := json.Unmarshal(env.Data, &details); err != nil || details.CancellationInfo == nil || details.CancellationInfo.CancelledBy != model.CancelledByAdmin {
		t.Fatalf("cancellation info = %+v err=%v", details.CancellationInfo, err)
	}

	status, env = s.do(http.MethodGet, "/api/v1/admin/stats/reservations", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("stats = %d", status)
	}
	var stats service.ReservationStats
	if err := json.Unmarshal(env.Data, &stats); err != nil || stats.TotalSpaces != 1 || stats.ActiveReservations != 0 {
		t.Fatalf("stats = %+v err=%v", stats, err)
	}

	status, env = s.do(http.MethodGet, "/api/v1/admin/reservations?status=cancelled&space_id="+space.ID.String(), admin, nil)
	if status != http.StatusOK {
		t.Fatalf("admin list = %d %+v", status, env)
	}
}

func TestFloorAndAnalyticsRoutes(t *testing.T) {
	s := newServer(t)
	admin := s.token(uuid.New(), jwtpkg.RoleAdmin)
	student := s.token(uuid.New(), jwtpkg.RoleStudent)

	status, _ := s.do(http.MethodPost, "/api/v1/admin/floors", student, map[string]string{"name": "Floor 1", "building": "Main Library"})
	if status != http.StatusForbidden {
		t.Fatalf("student create floor = %d, want 403", status)
	}
	status, env := s.do(http.MethodPost, "/api/v1/admin/floors", admin, map[string]string{"name": "Floor 1"})
	if status != http.StatusBadRequest || env.Error != "VALIDATION_ERROR" {
		t.Fatalf("floor without building = %d %+v", status, env)
	}
	status, env = s.do(http.MethodPost, "/api/v1/admin/floors", admin, map[string]string{"name": "Floor 1", "building": "Main Library"})
	if status != http.StatusCreated {
		t.Fatalf("create floor = %d %+v", status, env)
	}
	var floor model.Floor
	if err := json.Unmarshal(env.Data, &floor); err != nil {
		t.Fatalf("decode floor: %v", err)
	}
	s.h.CreateFloor(t, "Ground", "Engineering")

	status, env = s.do(http.MethodPatch, "/api/v1/admin/floors/"+floor.ID.String(), admin, map[string]string{"svg_path": "/plans/ml-1.svg"})
	if status != http.StatusOK {
		t.Fatalf("update floor = %d %+v", status, env)
	}

	status, env = s.do(http.MethodGet, "/api/v1/floors?building=Main%20Library", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list floors = %d", status)
	}
	var floors []model.Floor
	if err := json.Unmarshal(env.Data, &floors); err != nil || len(floors) != 1 || floors[0].SVGPath != "/plans/ml-1.svg" {
		t.Fatalf("floors = %+v err=%v", floors, err)
	}
	status, env = s.do(http.MethodGet, "/api/v1/floors/"+uuid.NewString(), "", nil)
	if status != http.StatusNotFound || env.Error != "FLOOR_NOT_FOUND" {
		t.Fatalf("unknown floor = %d %+v", status, env)
	}

	desk := s.h.CreateSpace(t, testfixtures.WithName("Monitor Desk"), testfixtures.WithFloor(floor.ID), testfixtures.WithEquipment("Monitor"))
	s.h.CreateSpace(t, testfixtures.WithName("Bare Desk"), testfixtures.WithFloor(floor.ID))
	status, env = s.do(http.MethodGet, "/api/v1/spaces?floor="+floor.ID.String()+"&equipment=monitor", "", nil)
	if status != http.StatusOK {
		t.Fatalf("filtered spaces = %d %+v", status, env)
	}
	var spaces []model.Space
	if err := json.Unmarshal(env.Data, &spaces); err != nil || len(spaces) != 1 || spaces[0].ID != desk.ID {
		t.Fatalf("filtered spaces = %+v err=%v", spaces, err)
	}

	s.h.CreateReservation(t, desk.ID, uuid.New(), testfixtures.At(9, 0), testfixtures.At(10, 0), 1)
	status, _ = s.do(http.MethodGet, "/api/v1/admin/analytics/utilization", student, nil)
	if status != http.StatusForbidden {
		t.Fatalf("student analytics = %d, want 403", status)
	}
	status, env = s.do(http.MethodGet, "/api/v1/admin/analytics/utilization", admin, nil)
	if status != http.StatusOK {
		t.Fatalf("analytics = %d %+v", status, env)
	}
	var report service.UtilizationReport
	if err := json.Unmarshal(env.Data, &report); err != nil || report.TotalReservations != 1 || report.MostPopularSpace == nil || report.MostPopularSpace.ID != desk.ID {
		t.Fatalf("report = %+v err=%v", report, err)
	}
}
