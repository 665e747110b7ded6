package scraper

import (
	"fmt"
	"regexp"
	"strings"
)

const minCarNameLength = 3

var invalidCarNameChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// ValidateCarName checks a single query name. Names must be at least three
// characters after trimming and may contain only letters, digits, spaces
// and hyphens.
func ValidateCarName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minCarNameLength {
		return fmt.Errorf("Car name %q must be at least %d characters long", name, minCarNameLength)
	}
	if invalidCarNameChars.MatchString(trimmed) {
		return fmt.Errorf("Car name %q contains invalid characters. Use letters, numbers, spaces, or hyphens only.", name)
	}
	return nil
}

// ValidateCarNames checks the whole batch and returns every violation, so
// the caller can reject the run with one message covering all bad names.
func ValidateCarNames(names []string) []string {
	var msgs []string
	for _, name := range names {
		if err := ValidateCarName(name); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}
