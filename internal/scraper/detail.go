package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"rentwatch/rentalscraper/helpers"
)

var kmPattern = regexp.MustCompile(`(?i)([\d,]+)\s*km`)

// ExtractMileage locates the detail section whose heading mentions
// mileage and condenses its allowance and overage figures into one line,
// e.g. "1500 km, then 0.5 AED per km".
func ExtractMileage(doc *goquery.Document, sel Selectors) string {
	var section *goquery.Selection
	doc.Find(sel.DetailSection).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		heading := strings.ToLower(s.Find("h3").First().Text())
		if strings.Contains(heading, "mileage") {
			section = s
			return false
		}
		return true
	})
	if section == nil {
		return NotAvailable
	}

	var parts []string
	section.Find(sel.SlotTitle).Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(s.Text()))
	})
	section.Find(sel.SlotSubtitle).Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(s.Text()))
	})
	combined := strings.Join(parts, " ")

	kmMatch := kmPattern.FindStringSubmatch(combined)
	pricePattern := regexp.MustCompile(`(?i)` + sel.CurrencyMarker + `\s?(\d+(\.\d+)?)`)
	priceMatch := pricePattern.FindStringSubmatch(combined)
	if kmMatch == nil || priceMatch == nil {
		return NotAvailable
	}

	km := strings.ReplaceAll(kmMatch[1], ",", "")
	return km + " km, then " + priceMatch[1] + " " + sel.CurrencyMarker + " per km"
}

// ExtractInsurance scans the insurance section line by line and keeps the
// lines describing the comprehensive cover, the excess range, and the
// deposit terms. A bare "Deposit" label is merged with the amount on the
// following line. Returns the sentinel when nothing matches.
func ExtractInsurance(doc *goquery.Document, sel Selectors) string {
	section := doc.Find(sel.InsuranceSection).First()
	if section.Length() == 0 {
		return NotAvailable
	}

	excessPattern := regexp.MustCompile(`(?i)excess amount.*\d+.*` + sel.CurrencyMarker)
	depositFreePattern := regexp.MustCompile(`(?i)deposit[- ]free ride.*` + sel.CurrencyMarker)

	lines := textLines(section)
	var picked []string
	for i, line := range lines {
		if strings.Contains(line, "Comprehensive Insurance") {
			picked = append(picked, line)
		}
		if excessPattern.MatchString(line) {
			picked = append(picked, line)
		}
		if depositFreePattern.MatchString(line) {
			picked = append(picked, line)
		}
		if strings.ToLower(line) == "deposit" && i+1 < len(lines) &&
			strings.Contains(lines[i+1], sel.CurrencyMarker) {
			picked = append(picked, " or "+line+" "+lines[i+1])
		}
	}

	if len(picked) == 0 {
		return NotAvailable
	}
	return strings.Join(picked, "\n")
}

// textLines flattens a selection into its visible text lines, one per
// non-empty text node, in document order
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, helpers.CollapseWhitespace(text))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return lines
}
