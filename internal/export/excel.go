// Package export renders scraped records into xlsx workbooks for
// download.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rentwatch/rentalscraper/helpers"
	"rentwatch/rentalscraper/internal/scraper"
	"rentwatch/rentalscraper/logger"
	"rentwatch/rentalscraper/pkg/errors"
)

// SheetName is the single worksheet holding the records
const SheetName = "Car Data"

// headers is the column order of the worksheet
var headers = []string{
	"Car Name",
	"Model",
	"Year",
	"Description",
	"Cross Price",
	"Actual Price",
	"Total",
	"Mileage",
	"Insurance & Options",
	"Original Vehicle",
	"Period",
}

var log = logger.ForExporter()

// FilterRecords narrows records to the requested card titles and model
// year. Empty names and an empty year mean no filtering on that axis.
func FilterRecords(records []scraper.ListingRecord, carNames []string, year string) []scraper.ListingRecord {
	wanted := make(map[string]struct{})
	for _, name := range carNames {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = struct{}{}
		}
	}

	var out []scraper.ListingRecord
	for _, rec := range records {
		if len(wanted) > 0 {
			if _, ok := wanted[rec.CarName]; !ok {
				continue
			}
		}
		if year != "" && rec.Year != year {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Workbook renders the records into an xlsx workbook held in memory
func Workbook(records []scraper.ListingRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, errors.NewExport("failed to create worksheet", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.NewExport("failed to drop default worksheet", err)
	}
	f.SetActiveSheet(index)

	if err := writeRow(f, 1, toRow(headers)); err != nil {
		return nil, err
	}
	for i, rec := range records {
		row := []interface{}{
			rec.CarName,
			rec.Model,
			rec.Year,
			rec.Description,
			rec.CrossPrice,
			rec.ActualPrice,
			rec.Total,
			rec.Mileage,
			rec.InsuranceOptions,
			rec.OriginalVehicle,
			rec.Period,
		}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewExport("failed to serialize workbook", err)
	}
	log.Debug().Int("records", len(records)).Msg("Workbook rendered")
	return buf, nil
}

// FileName derives the download name from the active filters, e.g.
// car_data_bmw_x5_2023_1717255260000.xlsx
func FileName(carNames []string, year string, now time.Time) string {
	parts := []string{"car_data"}
	var named bool
	for _, name := range carNames {
		if name = strings.TrimSpace(name); name != "" {
			parts = append(parts, helpers.FormatCarNameForFile(name))
			named = true
		}
	}
	if !named {
		parts = append(parts, "all_cars")
	}
	if year != "" {
		parts = append(parts, year)
	}
	parts = append(parts, fmt.Sprintf("%d", now.UnixMilli()))
	return helpers.SanitizeFileName(strings.Join(parts, "_")) + ".xlsx"
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.NewExport("failed to address cell", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return errors.NewExport("failed to write row", err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
