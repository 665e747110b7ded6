// Package server exposes the scrape engine over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentwatch/rentalscraper/internal/export"
	"rentwatch/rentalscraper/internal/scraper"
	"rentwatch/rentalscraper/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server wires the HTTP routes to the scrape engine
type Server struct {
	engine *scraper.Engine
	log    *logger.Logger
}

// New creates the HTTP server around an engine
func New(engine *scraper.Engine) *Server {
	return &Server{engine: engine, log: logger.ForServer()}
}

// Router builds the gin engine with all routes attached
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	api := router.Group("/api")
	{
		api.POST("/scrape", s.handleScrape)
		api.POST("/cancel-scrape", s.handleCancelScrape)
		api.GET("/years", s.handleYears)
		api.GET("/car-names", s.handleCarNames)
		api.POST("/download-excel", s.handleDownloadExcel)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// the bundled UI, when present
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir("./public"))))

	return router
}

func (s *Server) handleScrape(c *gin.Context) {
	var req scraper.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body: " + err.Error()})
		return
	}

	s.log.Info().Strs("cars", req.CarNames).
		Bool("daily", req.DailyCheck).
		Bool("weekly", req.WeeklyCheck).
		Bool("monthly", req.MonthlyCheck).
		Msg("Scrape requested")

	outcome := s.engine.Scrape(c.Request.Context(), req)
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleCancelScrape(c *gin.Context) {
	s.engine.Cancel()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Scraping cancellation requested"})
}

func (s *Server) handleYears(c *gin.Context) {
	years := s.engine.Years()
	if years == nil {
		years = []string{}
	}
	c.JSON(http.StatusOK, years)
}

func (s *Server) handleCarNames(c *gin.Context) {
	names := s.engine.CarNames()
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

type downloadRequest struct {
	CarNames []string `json:"carNames"`
	Year     string   `json:"year"`
}

func (s *Server) handleDownloadExcel(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body: " + err.Error()})
		return
	}

	records := export.FilterRecords(s.engine.Records(), req.CarNames, req.Year)
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No data matches the selected filters"})
		return
	}

	buf, err := export.Workbook(records)
	if err != nil {
		s.log.Error().Err(err).Msg("Workbook rendering failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate file"})
		return
	}

	fileName := export.FileName(req.CarNames, req.Year, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
