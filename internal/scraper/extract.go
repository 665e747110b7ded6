package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rentwatch/rentalscraper/helpers"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// totalMarker matches the prefix of the running-total price line
var totalMarker = regexp.MustCompile(`(?i)Total:`)

// ExtractCard reads the index-th listing card out of a rendered document
// snapshot. It returns the record, whether the card carries a deal button
// for detail enrichment, and whether a card existed at that index at all.
// The function is a pure read; running it twice on the same document
// yields the same record.
func ExtractCard(doc *goquery.Document, index int, sel Selectors, carQuery, periodLabel string) (ListingRecord, bool, bool) {
	rec := NewListingRecord(carQuery, periodLabel)

	titles := doc.Find(sel.CardTitle)
	if index >= titles.Length() {
		return rec, false, false
	}

	title := titles.Eq(index)
	if name := strings.TrimSpace(title.Text()); name != "" {
		rec.CarName = name
	}

	// the card container anchors the model lookup; a title without one is
	// not a real card
	card := title.Closest("div")
	if card.Length() == 0 {
		return rec, false, false
	}

	if model := strings.TrimSpace(card.Find(sel.CardModel).First().Text()); model != "" {
		rec.Model = model
		if year := yearPattern.FindString(model); year != "" {
			rec.Year = year
		}
	}

	if features := doc.Find(sel.CardFeatures).Eq(index); features.Length() > 0 {
		var texts []string
		features.Find(sel.CardFeatureSpans).Each(func(_ int, span *goquery.Selection) {
			if text := strings.TrimSpace(span.Text()); text != "" {
				texts = append(texts, text)
			}
		})
		if len(texts) > 0 {
			rec.Description = helpers.CollapseWhitespace(strings.Join(texts, ", "))
		}
	}

	if price := doc.Find(sel.CardPrice).Eq(index); price.Length() > 0 {
		rec.CrossPrice, rec.ActualPrice, rec.Total = classifyPriceLines(price, sel)
	}

	hasDetail := index < doc.Find(sel.DetailButton).Length()
	return rec, hasDetail, true
}

// classifyPriceLines walks the <p> lines of one price block. A line
// prefixed "Total:" is the running total, a currency line containing a
// struck-through child is the pre-discount price, and any other currency
// line is the price actually charged.
func classifyPriceLines(price *goquery.Selection, sel Selectors) (cross, actual, total string) {
	cross, actual, total = NotAvailable, NotAvailable, NotAvailable

	crossOut := `[class*="` + sel.CrossOutClass + `"]`
	price.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		switch {
		case totalMarker.MatchString(text):
			total = strings.TrimSpace(totalMarker.ReplaceAllString(text, ""))
		case strings.Contains(text, sel.CurrencyMarker) && p.Find(crossOut).Length() > 0:
			cross = text
		case strings.Contains(text, sel.CurrencyMarker):
			actual = text
		}
	})
	return cross, actual, total
}
