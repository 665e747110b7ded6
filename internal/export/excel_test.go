package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rentwatch/rentalscraper/internal/scraper"
)

func sampleRecords() []scraper.ListingRecord {
	return []scraper.ListingRecord{
		{
			CarName: "BMW X5", Model: "X5 xDrive40i 2023", Year: "2023",
			Description: "Automatic, 5 seats", CrossPrice: "AED 450 / day",
			ActualPrice: "AED 390 / day", Total: "AED 780",
			Mileage: "1500 km, then 0.5 AED per km", InsuranceOptions: "Comprehensive Insurance",
			OriginalVehicle: "BMW X5", Period: "daily",
		},
		{CarName: "Audi Q7", Year: "2021", OriginalVehicle: "Audi Q7", Period: "daily"},
	}
}

func TestFilterRecords(t *testing.T) {
	records := sampleRecords()

	assert.Len(t, FilterRecords(records, nil, ""), 2)
	assert.Len(t, FilterRecords(records, []string{"BMW X5"}, ""), 1)
	assert.Len(t, FilterRecords(records, []string{""}, ""), 2)
	assert.Len(t, FilterRecords(records, nil, "2021"), 1)
	assert.Empty(t, FilterRecords(records, []string{"BMW X5"}, "2021"))
}

func TestWorkbookRoundTrip(t *testing.T) {
	buf, err := Workbook(sampleRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Car Name", rows[0][0])
	assert.Equal(t, "Insurance & Options", rows[0][8])
	assert.Equal(t, "BMW X5", rows[1][0])
	assert.Equal(t, "AED 390 / day", rows[1][5])
	assert.Equal(t, "Audi Q7", rows[2][0])
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1717255260000)

	assert.Equal(t, "car_data_bmw_x5_2023_1717255260000.xlsx",
		FileName([]string{"BMW X5"}, "2023", now))
	assert.Equal(t, "car_data_all_cars_1717255260000.xlsx",
		FileName(nil, "", now))
	assert.Equal(t, "car_data_all_cars_2021_1717255260000.xlsx",
		FileName([]string{"  "}, "2021", now))
}
