package scraper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// NotAvailable is the sentinel for any field that could not be extracted.
// Every record field is always populated so downstream consumers never
// branch on missing keys.
const NotAvailable = "N/A"

// ListingRecord represents one scraped vehicle offer
type ListingRecord struct {
	CarName          string `json:"car_name"`
	Model            string `json:"model"`
	Year             string `json:"year"`
	Description      string `json:"description"`
	CrossPrice       string `json:"cross_price"`
	ActualPrice      string `json:"actual_price"`
	Total            string `json:"total"`
	Mileage          string `json:"mileage"`
	InsuranceOptions string `json:"insurance_options"`
	OriginalVehicle  string `json:"original_vehicle"`
	Period           string `json:"period"`
}

// NewListingRecord returns a record with every field set to the sentinel
// except the originating query and period label
func NewListingRecord(carQuery, periodLabel string) ListingRecord {
	return ListingRecord{
		CarName:          NotAvailable,
		Model:            NotAvailable,
		Year:             NotAvailable,
		Description:      NotAvailable,
		CrossPrice:       NotAvailable,
		ActualPrice:      NotAvailable,
		Total:            NotAvailable,
		Mileage:          NotAvailable,
		InsuranceOptions: NotAvailable,
		OriginalVehicle:  carQuery,
		Period:           periodLabel,
	}
}

// Key returns a stable identifier used to suppress duplicate publishes of
// the same offer
func (r ListingRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", r.CarName, r.Model, r.Period, r.ActualPrice)
}

// ScenarioKind identifies which rental-duration scenario a period belongs to
type ScenarioKind string

const (
	KindDaily   ScenarioKind = "Daily"
	KindWeekly  ScenarioKind = "Weekly"
	KindMonthly ScenarioKind = "Monthly"
)

// RentalPeriod is one (start, end) rental window derived per scenario
type RentalPeriod struct {
	Kind           ScenarioKind
	Since          time.Time
	Until          time.Time
	Label          string
	IsMonthly      bool
	DurationMonths int
}

// DurationHours returns the period length in hours
func (p RentalPeriod) DurationHours() float64 {
	return p.Until.Sub(p.Since).Hours()
}

// MonthlyData carries the month count for the monthly scenario
type MonthlyData struct {
	Months int `json:"months"`
}

// ScrapeRequest is the caller-facing request for one scrape run
type ScrapeRequest struct {
	CarNames     []string    `json:"carNames"`
	DailyCheck   bool        `json:"dailyCheck"`
	WeeklyCheck  bool        `json:"weeklyCheck"`
	MonthlyCheck bool        `json:"monthlyCheck"`
	PickupDate   string      `json:"pickupDate"`
	DropOffDate  string      `json:"dropOffDate"`
	MonthlyData  MonthlyData `json:"monthlyData"`
}

// ScrapeOutcome is the result of one scrape run. Message is always
// populated: a success note, a cancellation note, or the joined
// per-scenario errors.
type ScrapeOutcome struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    []ListingRecord `json:"data"`
}

// Cookie is a browser cookie harvested from a detail page and replayed onto
// subsequent pages
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"http_only"`
}

// CookieJar holds the cross-page cookies for one run. It is written by the
// card walker after a detail visit and read by the session manager before
// each new page; access is strictly sequential within a run.
type CookieJar struct {
	cookies []Cookie
}

// Replace swaps the jar contents for a fresh harvest
func (j *CookieJar) Replace(cookies []Cookie) {
	j.cookies = cookies
}

// Snapshot returns the current jar contents
func (j *CookieJar) Snapshot() []Cookie {
	return j.cookies
}

// RunContext carries the run-scoped state threaded through the
// orchestrator, walker and session manager. It is constructed once per
// request and never outlives it.
type RunContext struct {
	Jar       *CookieJar
	records   []ListingRecord
	cancelled atomic.Bool
}

// NewRunContext creates the state for one scrape run
func NewRunContext() *RunContext {
	return &RunContext{Jar: &CookieJar{}}
}

// Cancel flips the cooperative cancellation flag. Safe to call from any
// goroutine; idempotent.
func (r *RunContext) Cancel() {
	r.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested
func (r *RunContext) Cancelled() bool {
	return r.cancelled.Load()
}

// Policy bundles the timing constants injected into the card walker so
// they can be tuned per environment and tested with short values
type Policy struct {
	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
	ClickTimeout      time.Duration
	DetailWaitTimeout time.Duration
	DetailSettleWait  time.Duration
	RetryBackoff      time.Duration
	MaxAttempts       int
}

// Page is one browser tab as seen by the card walker
type Page interface {
	// Navigate loads a URL, waiting for the document to become ready
	Navigate(ctx context.Context, url string) error

	// WaitVisible blocks until the selector matches a visible element or
	// the timeout elapses
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns a snapshot of the rendered document
	HTML(ctx context.Context) (string, error)

	// ClickNth scrolls the index-th match of selector into view and
	// clicks it
	ClickNth(ctx context.Context, selector string, index int, timeout time.Duration) error

	// Cookies returns the cookies visible to the current page
	Cookies(ctx context.Context) ([]Cookie, error)

	// Close releases the tab
	Close()
}

// Session is one browser process plus browsing context, owned by the
// orchestrator for the duration of a run
type Session interface {
	// NewPage opens a tab with the given cookies replayed onto it
	NewPage(ctx context.Context, cookies []Cookie) (Page, error)

	// Close tears down the browsing context and the browser process
	Close()
}

// SessionFactory launches a session; injected so tests can supply fakes
type SessionFactory func(ctx context.Context) (Session, error)
