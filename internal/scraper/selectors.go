package scraper

// Selectors is the profile of CSS selectors and text markers that bind the
// extractor to the target site's generated class names. Substring matches
// keep the profile stable across hash-suffix churn; a full rebuild of the
// site's styling still requires a profile update.
type Selectors struct {
	CardTitle        string
	CardFeatures     string
	CardFeatureSpans string
	CardPrice        string
	CardModel        string
	DetailButton     string
	DetailSection    string
	InsuranceSection string
	SlotTitle        string
	SlotSubtitle     string

	// CurrencyMarker is the literal currency token price lines carry
	CurrencyMarker string
	// CrossOutClass is the class fragment marking a struck-through price
	CrossOutClass string
}

// DefaultSelectors returns the profile for the current site markup
func DefaultSelectors() Selectors {
	return Selectors{
		CardTitle:        `span[class*="Card_CardTitleMedium__korrS"]`,
		CardFeatures:     `div[class*="HStack_HStack__bHoaj Card_CardBubbles__zuOuw"]`,
		CardFeatureSpans: `span[class*="Text_Text__F4Wpv Card_CardBubble__zukT3"]`,
		CardPrice:        `div[class*="Heading_Heading__PjLg8 Card_CardPrice__spWUR"]`,
		CardModel:        `span[class*="ButtonSimilarInfo_ButtonSimilarInfoPrefix___Qou3"]`,
		DetailButton:     `button[data-testid="Card.Book"]`,
		DetailSection:    `div[class*="Island_IslandWrap__QuZPl"]`,
		InsuranceSection: `div[class*="BookFormInsuranceOptions_island__"]`,
		SlotTitle:        `div[class*="SlotText_Title__gHEmU"]`,
		SlotSubtitle:     `div[class*="SlotText_Subtitle__yHTPE"]`,
		CurrencyMarker:   "AED",
		CrossOutClass:    "Price_crossOut__QufS3",
	}
}
