package scraper

import (
	"fmt"
	"math"
	"strings"
	"time"

	"rentwatch/rentalscraper/helpers"
	"rentwatch/rentalscraper/pkg/errors"
)

const (
	dateLayout  = "2006-01-02"
	labelLayout = "1/2/2006, 3:04:05 PM"

	// hoursPerMonth is the threshold above which the site treats a rental
	// as monthly (30 days)
	hoursPerMonth = 720
)

// Planner derives rental periods from a request and builds the search URL
// for each (car, period) pair.
type Planner struct {
	// BaseURL is the site root without a trailing slash
	BaseURL string

	// Offset shifts the time-of-day applied to every period start so that
	// bookings never begin in the immediate past
	Offset time.Duration

	// Now is injectable for tests; nil means time.Now
	Now func() time.Time
}

// BaseTime returns the reference instant whose clock time is stamped onto
// every period boundary
func (p *Planner) BaseTime() time.Time {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	return now.Add(p.Offset)
}

// Periods expands the request's enabled scenarios into concrete rental
// periods. Date parsing failures surface as validation errors before any
// browser work starts.
func (p *Planner) Periods(req ScrapeRequest, base time.Time) ([]RentalPeriod, error) {
	if !req.DailyCheck && !req.WeeklyCheck && !req.MonthlyCheck {
		return nil, errors.NewValidation("", "at least one rental scenario must be selected")
	}

	pickup, err := p.parseDate(req.PickupDate, base)
	if err != nil {
		return nil, err
	}

	var periods []RentalPeriod

	if req.DailyCheck {
		until, err := p.dropOffAfter(req.DropOffDate, pickup, base)
		if err != nil {
			return nil, err
		}
		periods = append(periods, newPeriod(KindDaily, pickup, until, 0))
	}

	if req.WeeklyCheck {
		// the weekly window always spans exactly seven days from pickup,
		// independent of the drop-off date
		periods = append(periods, newPeriod(KindWeekly, pickup, pickup.AddDate(0, 0, 7), 0))
	}

	// the monthly scenario needs a positive month count; without one it is
	// silently skipped
	if req.MonthlyCheck && req.MonthlyData.Months > 0 {
		months := req.MonthlyData.Months
		dropOff, err := p.dropOffAfter(req.DropOffDate, pickup, base)
		if err != nil {
			return nil, err
		}
		periods = append(periods, newPeriod(KindMonthly, pickup, dropOff.AddDate(0, months, 0), months))
	}

	return periods, nil
}

// dropOffAfter parses the drop-off date and rejects windows that do not
// end strictly after the pickup.
func (p *Planner) dropOffAfter(value string, pickup, base time.Time) (time.Time, error) {
	dropOff, err := p.parseDate(value, base)
	if err != nil {
		return time.Time{}, err
	}
	if !dropOff.After(pickup) {
		return time.Time{}, errors.NewValidation("", "drop-off date must be after the pickup date")
	}
	return dropOff, nil
}

func (p *Planner) parseDate(value string, base time.Time) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, value, base.Location())
	if err != nil {
		return time.Time{}, errors.NewValidation("", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value))
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		base.Hour(), base.Minute(), base.Second(), 0, base.Location()), nil
}

func newPeriod(kind ScenarioKind, since, until time.Time, months int) RentalPeriod {
	period := RentalPeriod{Kind: kind, Since: since, Until: until}
	hours := period.DurationHours()
	period.IsMonthly = kind == KindMonthly || hours >= hoursPerMonth
	if period.IsMonthly {
		period.DurationMonths = months
		if period.DurationMonths == 0 {
			period.DurationMonths = int(math.Ceil(hours / hoursPerMonth))
		}
	}
	period.Label = periodLabel(period)
	return period
}

func periodLabel(p RentalPeriod) string {
	if p.Kind == KindMonthly {
		unit := "Months"
		if p.DurationMonths == 1 {
			unit = "Month"
		}
		return fmt.Sprintf("%d %s from %s", p.DurationMonths, unit, p.Since.Format(labelLayout))
	}
	return fmt.Sprintf("%s - %s", p.Since.Format(labelLayout), p.Until.Format(labelLayout))
}

// SearchURL builds the listing URL for one car and period. The query
// string is assembled in a fixed order because the site's cache keys on
// the raw string.
func (p *Planner) SearchURL(carName string, period RentalPeriod) string {
	var b strings.Builder
	b.WriteString(p.BaseURL)
	b.WriteString("/search/all/")
	b.WriteString(helpers.FormatCarNameForURL(carName))
	fmt.Fprintf(&b, "?since=%d&until=%d&duration_months=%d",
		period.Since.UnixMilli(), period.Until.UnixMilli(), period.DurationMonths)
	if period.IsMonthly {
		b.WriteString("&is_monthly=true")
	}
	b.WriteString("&sort_by=price&sort_order=asc")
	return b.String()
}
