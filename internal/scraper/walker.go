package scraper

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"rentwatch/rentalscraper/internal/metrics"
	"rentwatch/rentalscraper/logger"
	"rentwatch/rentalscraper/pkg/errors"
)

// Walker drives one scenario: it reloads the listing page once per card
// index, extracts the card, optionally follows the deal button for detail
// enrichment, and stops at the card cap or when no card exists at the
// current index.
type Walker struct {
	sel      Selectors
	policy   Policy
	maxCards int
	log      *logger.Logger
}

// NewWalker creates a card walker with the given selector profile and
// timing policy
func NewWalker(sel Selectors, policy Policy, maxCards int) *Walker {
	return &Walker{
		sel:      sel,
		policy:   policy,
		maxCards: maxCards,
		log:      logger.ForScraper(),
	}
}

// Scrape walks the cards of one (car, period) search result. The returned
// error is nil only when at least one record was extracted; partial
// detail-page failures degrade to sentinel fields instead of failing the
// scenario.
func (w *Walker) Scrape(ctx context.Context, page Page, run *RunContext, carName string, period RentalPeriod, searchURL string) ([]ListingRecord, error) {
	var records []ListingRecord

	for index := 0; index < w.maxCards; index++ {
		if run.Cancelled() {
			return records, errors.NewCancelled(carName, period.Label)
		}

		w.log.Debug().
			Int("card", index+1).
			Str("car", carName).
			Str("period", period.Label).
			Msg("Loading listing page")

		if err := w.navigate(ctx, page, searchURL); err != nil {
			return nil, w.classify(err, carName, period.Label, "navigation failed")
		}

		if err := w.waitForCards(ctx, page); err != nil {
			if index == 0 {
				return nil, w.classify(err, carName, period.Label, "no listing cards appeared")
			}
			// cards rendered earlier in this run; treat the loss as
			// exhaustion and keep what we have
			w.log.Warn().Err(err).Str("car", carName).Msg("Cards disappeared mid-walk")
			break
		}

		rec, hasDetail, found, err := w.extractWithRetry(ctx, page, index, carName, period.Label)
		if err != nil {
			if errors.IsCancelled(err) || stderrors.Is(err, context.Canceled) {
				return records, errors.NewCancelled(carName, period.Label)
			}
			w.log.Warn().Err(err).Int("card", index+1).Msg("Giving up on card extraction")
			break
		}
		if !found {
			w.log.Debug().Int("card", index+1).Str("car", carName).Msg("No more cards")
			break
		}

		if hasDetail {
			if err := w.visitDetail(ctx, page, run, &rec, index); err != nil {
				metrics.DetailVisits.WithLabelValues("failure").Inc()
				w.log.Warn().Err(err).Int("card", index+1).Msg("Detail page failed")
				rec.Mileage = NotAvailable
				rec.InsuranceOptions = NotAvailable
			} else {
				metrics.DetailVisits.WithLabelValues("success").Inc()
			}
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.NewExtraction(carName, period.Label, "no data found", nil)
	}
	return records, nil
}

func (w *Walker) navigate(ctx context.Context, page Page, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, w.policy.NavigationTimeout)
	defer cancel()
	return page.Navigate(navCtx, url)
}

// waitForCards blocks until the three card fragments are visible. All
// three must render before extraction is worth attempting.
func (w *Walker) waitForCards(ctx context.Context, page Page) error {
	for _, selector := range []string{w.sel.CardTitle, w.sel.CardFeatures, w.sel.CardPrice} {
		if err := page.WaitVisible(ctx, selector, w.policy.SelectorTimeout); err != nil {
			return err
		}
	}
	return nil
}

// extractWithRetry snapshots the page and extracts one card, retrying a
// bounded number of times with a short backoff when the snapshot fails
func (w *Walker) extractWithRetry(ctx context.Context, page Page, index int, carName, periodLabel string) (ListingRecord, bool, bool, error) {
	var lastErr error
	for attempt := 1; attempt <= w.policy.MaxAttempts; attempt++ {
		raw, err := page.HTML(ctx)
		if err == nil {
			doc, perr := goquery.NewDocumentFromReader(strings.NewReader(raw))
			if perr == nil {
				rec, hasDetail, found := ExtractCard(doc, index, w.sel, carName, periodLabel)
				return rec, hasDetail, found, nil
			}
			err = perr
		}
		lastErr = err
		w.log.Debug().Err(err).Int("card", index+1).Int("attempt", attempt).Msg("Card snapshot failed")
		if attempt < w.policy.MaxAttempts {
			if serr := sleep(ctx, w.policy.RetryBackoff); serr != nil {
				return ListingRecord{}, false, false, serr
			}
		}
	}
	return ListingRecord{}, false, false, lastErr
}

// visitDetail clicks the deal button for the index-th card, waits for the
// detail view to settle, extracts mileage and insurance, and harvests the
// page cookies into the run's jar
func (w *Walker) visitDetail(ctx context.Context, page Page, run *RunContext, rec *ListingRecord, index int) error {
	if err := page.ClickNth(ctx, w.sel.DetailButton, index, w.policy.ClickTimeout); err != nil {
		return err
	}
	if err := sleep(ctx, w.policy.DetailSettleWait); err != nil {
		return err
	}

	// the detail island may be absent for some vehicles; its absence only
	// means the sentinel fields stay
	if err := page.WaitVisible(ctx, w.sel.DetailSection, w.policy.DetailWaitTimeout); err != nil {
		w.log.Warn().Int("card", index+1).Msg("Detail section not found")
	}

	raw, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return err
	}

	rec.Mileage = ExtractMileage(doc, w.sel)
	rec.InsuranceOptions = ExtractInsurance(doc, w.sel)

	if cookies, err := page.Cookies(ctx); err == nil {
		run.Jar.Replace(cookies)
	} else {
		w.log.Warn().Err(err).Msg("Cookie harvest failed")
	}
	return nil
}

// classify wraps a page-level failure into the error taxonomy so the
// orchestrator can map it to a user-facing message
func (w *Walker) classify(err error, car, periodLabel, message string) error {
	if stderrors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return errors.NewTimeout(car, periodLabel, message, err)
	}
	if stderrors.Is(err, context.Canceled) {
		return errors.NewCancelled(car, periodLabel)
	}
	return errors.NewExtraction(car, periodLabel, message, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
