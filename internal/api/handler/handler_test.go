package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rao-samarth/timetable-generator/internal/api/middleware"
	"github.com/rao-samarth/timetable-generator/internal/dto"
	"github.com/rao-samarth/timetable-generator/internal/model"
	"github.com/rao-samarth/timetable-generator/internal/scheduler"
	"github.com/rao-samarth/timetable-generator/internal/service"
	"github.com/rao-samarth/timetable-generator/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock CatalogService ──

type mockCatalogService struct {
	loadResult []model.Course
	loadErr    error
	forced     bool
}

func (m *mockCatalogService) Load(_ context.Context, force bool) ([]model.Course, error) {
	m.forced = force
	return m.loadResult, m.loadErr
}

func (m *mockCatalogService) Courses() []model.Course { return m.loadResult }

func (m *mockCatalogService) Course(id string) (model.Course, bool) {
	for _, c := range m.loadResult {
		if c.ID == id {
			return c, true
		}
	}
	return model.Course{}, false
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	listResult      *dto.CourseListResponse
	toggleResult    *dto.ToggleResponse
	selectionResult *dto.SelectionResponse
	flattenResult   []scheduler.FlatEntry

	gotSessionID string
	gotCourseID  string
	gotPerson    scheduler.Person
}

func (m *mockScheduleService) ListCourses(sessionID string, person scheduler.Person) *dto.CourseListResponse {
	m.gotSessionID, m.gotPerson = sessionID, person
	return m.listResult
}

func (m *mockScheduleService) Toggle(sessionID, courseID string, person scheduler.Person) *dto.ToggleResponse {
	m.gotSessionID, m.gotCourseID, m.gotPerson = sessionID, courseID, person
	return m.toggleResult
}

func (m *mockScheduleService) Selection(sessionID string, person scheduler.Person) *dto.SelectionResponse {
	m.gotSessionID, m.gotPerson = sessionID, person
	return m.selectionResult
}

func (m *mockScheduleService) Flatten(sessionID string) []scheduler.FlatEntry {
	m.gotSessionID = sessionID
	return m.flattenResult
}

// ── Mock ExportService ──

type mockExportService struct {
	eventsResult *dto.EventListResponse
	eventsErr    error
	icsBuf       *bytes.Buffer
	icsName      string
	icsErr       error
	gridBuf      *bytes.Buffer
	gridName     string
	gridErr      error
}

func (m *mockExportService) Events(_ string) (*dto.EventListResponse, error) {
	return m.eventsResult, m.eventsErr
}

func (m *mockExportService) ICS(_ string) (*bytes.Buffer, string, error) {
	return m.icsBuf, m.icsName, m.icsErr
}

func (m *mockExportService) Grid(_ string) (*bytes.Buffer, string, error) {
	return m.gridBuf, m.gridName, m.gridErr
}

// ── Test harness ──

// newTestRouter wires a handler behind the real session middleware so the
// handlers find a session id in the context.
func newTestRouter(register func(r *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	grp := r.Group("/", middleware.Session())
	register(grp)
	return r
}

func doRequest(r *gin.Engine, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not the JSON envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

// ═══════════════════════════════════════════════════════════
// CatalogHandler
// ═══════════════════════════════════════════════════════════

func TestCatalogHandler_Reload_Success(t *testing.T) {
	svc := &mockCatalogService{loadResult: []model.Course{{ID: "Algebra"}, {ID: "Pottery"}}}
	h := NewCatalogHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.POST("/catalog/reload", h.Reload) })

	w := doRequest(r, http.MethodPost, "/catalog/reload", "sess-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !svc.forced {
		t.Error("reload must force a rescrape")
	}
	env := decodeEnvelope(t, w)
	if env.Code != 0 {
		t.Errorf("expected code 0, got %d", env.Code)
	}
}

func TestCatalogHandler_Reload_NoData(t *testing.T) {
	svc := &mockCatalogService{loadErr: service.ErrNoCatalogData}
	h := NewCatalogHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.POST("/catalog/reload", h.Reload) })

	w := doRequest(r, http.MethodPost, "/catalog/reload", "sess-1", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != 20001 {
		t.Errorf("expected business code 20001, got %d", env.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_ListCourses(t *testing.T) {
	svc := &mockScheduleService{
		listResult: &dto.CourseListResponse{
			Courses: []dto.CourseResponse{{ID: "Algebra", Status: dto.StatusAvailable}},
			Total:   1,
		},
	}
	h := NewScheduleHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/courses", h.ListCourses) })

	w := doRequest(r, http.MethodGet, "/courses?person=alice", "sess-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.gotSessionID != "sess-1" {
		t.Errorf("session id not forwarded, got %q", svc.gotSessionID)
	}
	if svc.gotPerson != "alice" {
		t.Errorf("person not forwarded, got %q", svc.gotPerson)
	}
}

func TestScheduleHandler_SessionIssuedWhenMissing(t *testing.T) {
	svc := &mockScheduleService{listResult: &dto.CourseListResponse{}}
	h := NewScheduleHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/courses", h.ListCourses) })

	w := doRequest(r, http.MethodGet, "/courses", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	issued := w.Header().Get("X-Session-ID")
	if issued == "" {
		t.Fatal("middleware should issue a session id")
	}
	if svc.gotSessionID != issued {
		t.Errorf("handler saw %q, middleware issued %q", svc.gotSessionID, issued)
	}
}

func TestScheduleHandler_Toggle(t *testing.T) {
	svc := &mockScheduleService{
		toggleResult: &dto.ToggleResponse{CourseID: "Algebra", Selected: true},
	}
	h := NewScheduleHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.POST("/selections/toggle", h.Toggle) })

	w := doRequest(r, http.MethodPost, "/selections/toggle", "sess-1",
		dto.ToggleRequest{CourseID: "Algebra", Person: "alice"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.gotCourseID != "Algebra" || svc.gotPerson != "alice" {
		t.Errorf("request not forwarded: course=%q person=%q", svc.gotCourseID, svc.gotPerson)
	}
}

func TestScheduleHandler_Toggle_MissingCourseID(t *testing.T) {
	svc := &mockScheduleService{}
	h := NewScheduleHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.POST("/selections/toggle", h.Toggle) })

	w := doRequest(r, http.MethodPost, "/selections/toggle", "sess-1",
		map[string]string{"person": "alice"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != 30001 {
		t.Errorf("expected business code 30001, got %d", env.Code)
	}
}

func TestScheduleHandler_GetFlat_EmptyIsList(t *testing.T) {
	svc := &mockScheduleService{flattenResult: nil}
	h := NewScheduleHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/selections/flat", h.GetFlat) })

	w := doRequest(r, http.MethodGet, "/selections/flat", "sess-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"entries":null`) {
		t.Error("empty flatten must serialize as [], not null")
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ICS_Download(t *testing.T) {
	svc := &mockExportService{
		icsBuf:  bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		icsName: "timetable.ics",
	}
	h := NewExportHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/export/ics", h.ICS) })

	w := doRequest(r, http.MethodGet, "/export/ics", "sess-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "timetable.ics") {
		t.Errorf("missing download filename, got %q", cd)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("body does not carry the calendar payload")
	}
}

func TestExportHandler_Grid_Download(t *testing.T) {
	svc := &mockExportService{
		gridBuf:  bytes.NewBufferString("PK\x03\x04"),
		gridName: "timetable_grid.xlsx",
	}
	h := NewExportHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/export/grid.xlsx", h.Grid) })

	w := doRequest(r, http.MethodGet, "/export/grid.xlsx", "sess-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "timetable_grid.xlsx") {
		t.Errorf("missing download filename, got %q", cd)
	}
}

func TestExportHandler_NoSelection(t *testing.T) {
	svc := &mockExportService{
		eventsErr: service.ErrExportNoSelection,
		icsErr:    service.ErrExportNoSelection,
		gridErr:   service.ErrExportNoSelection,
	}
	h := NewExportHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.GET("/export/events", h.Events)
		g.GET("/export/ics", h.ICS)
		g.GET("/export/grid.xlsx", h.Grid)
	})

	for _, path := range []string{"/export/events", "/export/ics", "/export/grid.xlsx"} {
		w := doRequest(r, http.MethodGet, path, "sess-1", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
		if env := decodeEnvelope(t, w); env.Code != 40001 {
			t.Errorf("%s: expected business code 40001, got %d", path, env.Code)
		}
	}
}

func TestExportHandler_GenerateFailure(t *testing.T) {
	svc := &mockExportService{gridErr: service.ErrExportGenerateFail}
	h := NewExportHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/export/grid.xlsx", h.Grid) })

	w := doRequest(r, http.MethodGet, "/export/grid.xlsx", "sess-1", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != 40002 {
		t.Errorf("expected business code 40002, got %d", env.Code)
	}
}

func TestExportHandler_Events(t *testing.T) {
	svc := &mockExportService{
		eventsResult: &dto.EventListResponse{
			Events: []dto.EventResponse{{CourseID: "Algebra", Day: model.Mon, Slot: 1}},
			Total:  1,
		},
	}
	h := NewExportHandler(svc)
	r := newTestRouter(func(g *gin.RouterGroup) { g.GET("/export/events", h.Events) })

	w := doRequest(r, http.MethodGet, "/export/events", "sess-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != 0 || env.Data == nil {
		t.Errorf("unexpected envelope %+v", env)
	}
}
