package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"teacher_hours_dashboard/internal/app"
	"teacher_hours_dashboard/internal/domain/lesson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSource struct {
	records []lesson.Record
	err     error
}

func (s *stubSource) Fetch(_ context.Context) ([]lesson.Record, error) {
	return s.records, s.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestServer(src *stubSource) *Server {
	svc := app.NewDashboardService(src, app.NewValidator(decimal.Zero), nil, nil, quietLogger())
	return New(svc, quietLogger(), ":0", "test")
}

func testRecords() []lesson.Record {
	return lesson.ParseRows([]lesson.RawRow{
		{Row: 2, Teacher: "T1", Date: "01/01/2024", Start: "09:00", End: "11:30", Hours: "2.0"},
	})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubSource{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReportBeforeFirstRefresh(t *testing.T) {
	srv := newTestServer(&stubSource{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first refresh, got %d", w.Code)
	}
}

func TestRefreshThenReport(t *testing.T) {
	srv := newTestServer(&stubSource{records: testRecords()})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d", w.Code)
	}

	var payload struct {
		Report struct {
			RecordCount    int               `json:"record_count"`
			HourMismatches []json.RawMessage `json:"hour_mismatches"`
		} `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if payload.Report.RecordCount != 1 || len(payload.Report.HourMismatches) != 1 {
		t.Fatalf("unexpected report payload: %s", w.Body.String())
	}
}

func TestRefreshSourceFailure(t *testing.T) {
	srv := newTestServer(&stubSource{err: context.DeadlineExceeded})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on source failure, got %d", w.Code)
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(&stubSource{records: testRecords()})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "report_controllo_ore_") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected a workbook body")
	}
}

func TestRunsWithoutHistory(t *testing.T) {
	srv := newTestServer(&stubSource{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when history is disabled, got %d", w.Code)
	}
}

func TestRunsBadLimit(t *testing.T) {
	srv := newTestServer(&stubSource{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=zero", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}
}
