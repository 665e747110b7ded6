package scraper

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"rentwatch/rentalscraper/internal/metrics"
	"rentwatch/rentalscraper/logger"
	"rentwatch/rentalscraper/pkg/errors"
	"rentwatch/rentalscraper/services/cache"
	"rentwatch/rentalscraper/services/publisher"
)

// User-facing messages for the two error classes that replace the raw
// failure text
const (
	MsgCheckCarName = "Check car name on Yango Drive website"
	MsgCancelled    = "Scraping cancelled by user"
	MsgNoData       = "No data scraped"
)

// Engine runs scrape requests end to end: validation, session launch,
// the car and scenario loops, result accumulation, and publishing. One
// engine serves the whole process; runs execute one at a time from the
// HTTP layer's point of view.
type Engine struct {
	planner  *Planner
	walker   *Walker
	sessions SessionFactory
	store    *Store

	cache     cache.CacheService
	publisher publisher.Publisher
	probe     func(url string) ([]byte, error)
	blockTime time.Duration

	log *logger.Logger

	mu      sync.Mutex
	current *RunContext
}

// EngineOptions wires an Engine. Cache, Publisher and Probe are optional;
// a nil value disables that concern.
type EngineOptions struct {
	Planner   *Planner
	Walker    *Walker
	Sessions  SessionFactory
	Store     *Store
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Probe     func(url string) ([]byte, error)
	BlockTime time.Duration
}

// NewEngine creates a scrape engine
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{
		planner:   opts.Planner,
		walker:    opts.Walker,
		sessions:  opts.Sessions,
		store:     opts.Store,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		probe:     opts.Probe,
		blockTime: opts.BlockTime,
		log:       logger.ForScraper(),
	}
}

// Scrape executes one run. It never returns an error; every failure mode
// is folded into the outcome so the caller always gets a message and
// whatever records were extracted before the failure.
func (e *Engine) Scrape(ctx context.Context, req ScrapeRequest) ScrapeOutcome {
	if len(req.CarNames) == 0 {
		return ScrapeOutcome{Message: "at least one car name is required", Data: []ListingRecord{}}
	}
	if msgs := ValidateCarNames(req.CarNames); len(msgs) > 0 {
		return ScrapeOutcome{Message: strings.Join(msgs, "; "), Data: []ListingRecord{}}
	}

	base := e.planner.BaseTime()
	periods, err := e.planner.Periods(req, base)
	if err != nil {
		return ScrapeOutcome{Message: messageOf(err), Data: []ListingRecord{}}
	}

	// each run reflects exactly one request
	e.store.Reset()
	run := NewRunContext()
	e.setCurrent(run)
	defer e.clearCurrent()

	if e.probe != nil {
		if _, err := e.probe(e.planner.BaseURL); err != nil {
			// the browser may still get through; note it and carry on
			e.log.Warn().Err(err).Msg("Site probe failed")
		}
	}

	session, err := e.sessions(ctx)
	if err != nil {
		return ScrapeOutcome{
			Message: messageOf(errors.NewSession("failed to launch browser session", err)),
			Data:    []ListingRecord{},
		}
	}
	defer session.Close()

	var errs []string
	for _, carName := range req.CarNames {
		carName = strings.TrimSpace(carName)
		if run.Cancelled() {
			return e.cancelledOutcome(run)
		}

		page, err := session.NewPage(ctx, run.Jar.Snapshot())
		if err != nil {
			errs = append(errs, fmt.Sprintf("Failed to open page for %s: %v", carName, err))
			continue
		}

		for _, period := range periods {
			if run.Cancelled() {
				page.Close()
				return e.cancelledOutcome(run)
			}
			if e.blocked(carName, period) {
				metrics.ScenariosTotal.WithLabelValues(metrics.ResultSkipped).Inc()
				errs = append(errs, fmt.Sprintf("%s scrape skipped for %s: recent timeout, cooling down", period.Kind, carName))
				continue
			}

			start := time.Now()
			url := e.planner.SearchURL(carName, period)
			e.log.Info().Str("car", carName).Str("period", period.Label).Str("url", url).Msg("Starting scenario")

			records, err := e.walker.Scrape(ctx, page, run, carName, period, url)
			metrics.ScenarioDuration.Observe(time.Since(start).Seconds())

			if errors.IsCancelled(err) {
				metrics.ScenariosTotal.WithLabelValues(metrics.ResultCancelled).Inc()
				page.Close()
				return e.cancelledOutcome(run)
			}
			if err != nil {
				metrics.ScenariosTotal.WithLabelValues(metrics.ResultFailure).Inc()
				errs = append(errs, fmt.Sprintf("%s scrape failed for %s: %s", period.Kind, carName, ClassifyScenarioError(err)))
				if errors.IsTimeout(err) {
					e.block(carName, period)
				}
				continue
			}

			metrics.ScenariosTotal.WithLabelValues(metrics.ResultSuccess).Inc()
			metrics.RecordsScraped.Add(float64(len(records)))
			run.records = append(run.records, records...)
			e.store.Append(records)
			e.publish(records)
		}

		page.Close()
	}

	e.trimStreams()
	return e.composeOutcome(run, errs)
}

// Cancel requests cooperative cancellation of the in-flight run, if any.
// Idempotent; a no-op when nothing is running.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.current.Cancel()
	}
}

// Records returns the records of the most recent run
func (e *Engine) Records() []ListingRecord {
	return e.store.Snapshot()
}

// Years returns the distinct model years of the most recent run
func (e *Engine) Years() []string {
	return e.store.Years()
}

// CarNames returns the distinct card titles of the most recent run
func (e *Engine) CarNames() []string {
	return e.store.CarNames()
}

// ClassifyScenarioError maps a scenario failure to its user-facing
// message. Timeouts become a hint to verify the car name, cancellations
// become the cancellation notice, and everything else passes through.
func ClassifyScenarioError(err error) string {
	switch {
	case errors.IsTimeout(err):
		return MsgCheckCarName
	case errors.IsCancelled(err):
		return MsgCancelled
	default:
		return messageOf(err)
	}
}

func messageOf(err error) string {
	var se *errors.ScrapeError
	if stderrors.As(err, &se) && se.Message != "" {
		if se.Err != nil {
			return fmt.Sprintf("%s: %v", se.Message, se.Err)
		}
		return se.Message
	}
	return err.Error()
}

func (e *Engine) setCurrent(run *RunContext) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = run
}

func (e *Engine) clearCurrent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = nil
}

func (e *Engine) cancelledOutcome(run *RunContext) ScrapeOutcome {
	e.log.Info().Int("records", len(run.records)).Msg("Run cancelled")
	return ScrapeOutcome{Message: MsgCancelled, Data: []ListingRecord{}}
}

func (e *Engine) composeOutcome(run *RunContext, errs []string) ScrapeOutcome {
	if len(run.records) == 0 {
		msg := strings.Join(errs, "; ")
		if msg == "" {
			msg = MsgNoData
		}
		return ScrapeOutcome{Message: msg, Data: []ListingRecord{}}
	}
	if len(errs) > 0 {
		return ScrapeOutcome{
			Success: true,
			Message: "Scraping completed with errors: " + strings.Join(errs, "; "),
			Data:    run.records,
		}
	}
	return ScrapeOutcome{Success: true, Message: "Scraping completed successfully", Data: run.records}
}

func (e *Engine) blocked(carName string, period RentalPeriod) bool {
	if e.cache == nil {
		return false
	}
	_, err := e.cache.Get(cache.BlockKey(carName, string(period.Kind)))
	return err == nil
}

func (e *Engine) block(carName string, period RentalPeriod) {
	if e.cache == nil || e.blockTime <= 0 {
		return
	}
	key := cache.BlockKey(carName, string(period.Kind))
	if err := e.cache.Set(key, []byte("1"), e.blockTime); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("Failed to record timeout block")
	}
}

func (e *Engine) publish(records []ListingRecord) {
	if e.publisher == nil {
		return
	}
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		if err := e.publisher.Publish(rec.Key(), payload); err != nil {
			metrics.PublishTotal.WithLabelValues(metrics.ResultFailure).Inc()
			e.log.Warn().Err(err).Str("key", rec.Key()).Msg("Publish failed")
		} else {
			metrics.PublishTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		}
	}
}

func (e *Engine) trimStreams() {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.TrimStreams(); err != nil {
		e.log.Warn().Err(err).Msg("Stream trim failed")
	}
}
