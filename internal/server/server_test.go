package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwatch/rentalscraper/internal/scraper"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := scraper.NewEngine(scraper.EngineOptions{
		Planner: &scraper.Planner{BaseURL: "https://drive.yango.com", Offset: 2 * time.Hour},
		Walker:  scraper.NewWalker(scraper.DefaultSelectors(), scraper.Policy{MaxAttempts: 1}, 5),
		Store:   scraper.NewStore(),
		Sessions: func(ctx context.Context) (scraper.Session, error) {
			return nil, errors.New("no browser in tests")
		},
	})
	return New(engine).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScrapeRejectsMalformedBody(t *testing.T) {
	rec := doJSON(t, testRouter(), http.MethodPost, "/api/scrape", `{"carNames": "not an array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestScrapeValidationErrorsSurfaceInOutcome(t *testing.T) {
	rec := doJSON(t, testRouter(), http.MethodPost, "/api/scrape",
		`{"carNames":["a"],"dailyCheck":true,"pickupDate":"2025-06-10","dropOffDate":"2025-06-12"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "at least 3 characters")
}

func TestScrapeSessionFailureSurfacesInOutcome(t *testing.T) {
	rec := doJSON(t, testRouter(), http.MethodPost, "/api/scrape",
		`{"carNames":["BMW X5"],"dailyCheck":true,"pickupDate":"2025-06-10","dropOffDate":"2025-06-12"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "failed to launch browser session")
}

func TestCancelScrapeIsIdempotent(t *testing.T) {
	router := testRouter()
	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/cancel-scrape", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Scraping cancellation requested")
	}
}

func TestYearsAndCarNamesEmptyBeforeAnyRun(t *testing.T) {
	router := testRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/years", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/car-names", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestDownloadExcelRejectsEmptySelection(t *testing.T) {
	rec := doJSON(t, testRouter(), http.MethodPost, "/api/download-excel", `{"carNames":[],"year":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data matches the selected filters")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doJSON(t, testRouter(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
