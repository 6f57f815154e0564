package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"teacher_hours_dashboard/internal/app"
	"teacher_hours_dashboard/internal/domain/report"
	"teacher_hours_dashboard/internal/infra/excel"
)

// Server exposes the dashboard API: the latest validation report, manual
// refresh, the xlsx download and the run history.
type Server struct {
	svc     *app.DashboardService
	logger  *logrus.Logger
	httpSrv *http.Server
}

func New(svc *app.DashboardService, logger *logrus.Logger, addr string, environment string) *Server {
	if environment == "production" || environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	s := &Server{
		svc:    svc,
		logger: logger,
		httpSrv: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	engine.GET("/healthz", s.handleHealth)
	api := engine.Group("/api")
	{
		api.GET("/report", s.handleReport)
		api.POST("/refresh", s.handleRefresh)
		api.GET("/report/export", s.handleExport)
		api.GET("/runs", s.handleRuns)
	}

	return s
}

// Handler exposes the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReport(c *gin.Context) {
	snap, err := s.svc.Latest()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no report available yet, trigger a refresh"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleRefresh(c *gin.Context) {
	snap, err := s.svc.Refresh(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("manual refresh failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh data from source"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleExport(c *gin.Context) {
	snap, err := s.svc.Latest()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no report available yet, trigger a refresh"})
		return
	}

	f, err := excel.BuildWorkbook(snap.Report)
	if err != nil {
		s.logger.WithError(err).Error("failed to build xlsx workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	filename := fmt.Sprintf("report_controllo_ore_%s.xlsx", snap.FetchedAt.Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		s.logger.WithError(err).Error("failed to stream xlsx workbook")
	}
}

func (s *Server) handleRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.svc.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, app.ErrHistoryDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run history is not configured"})
			return
		}
		s.logger.WithError(err).Error("failed to list validation runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []*report.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
