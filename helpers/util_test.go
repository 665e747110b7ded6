package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCarNameForURL(t *testing.T) {
	assert.Equal(t, "toyota/camry", FormatCarNameForURL("Toyota Camry"))
	assert.Equal(t, "nissan/sunny", FormatCarNameForURL("  Nissan   Sunny "))
	assert.Equal(t, "bmw", FormatCarNameForURL("BMW"))
}

func TestFormatCarNameForFile(t *testing.T) {
	assert.Equal(t, "toyota_camry", FormatCarNameForFile("Toyota Camry"))
	assert.Equal(t, "land_rover_defender", FormatCarNameForFile("Land Rover Defender"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "3_Months_from_2025", SanitizeFileName("3 Months from 2025"))
	assert.Equal(t, "a_b_c", SanitizeFileName("a//b::c"))

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, SanitizeFileName(string(long)), 100)
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "GCC Spec 2023", CollapseWhitespace("  GCC \n Spec\t 2023 "))
}
