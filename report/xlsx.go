// SPDX-License-Identifier: GPL-3.0-or-later
package report

import (
	"fmt"
	"math"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	SheetResults = "Results"
	SheetSummary = "Summary"
)

// WriteXlsx writes the results table and the summary into one workbook.
func WriteXlsx(path string, results []domain.PollResult) error {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", SheetResults)
	if err != nil {
		return fmt.Errorf("could not rename sheet: %w", err)
	}
	_, err = f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("could not create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create header style: %w", err)
	}

	err = setRow(f, SheetResults, 1, toCells(Columns))
	if err != nil {
		return err
	}
	for i, r := range Sorted(results) {
		err = setRow(f, SheetResults, i+2, resultCells(r))
		if err != nil {
			return err
		}
	}
	err = f.SetRowStyle(SheetResults, 1, 1, bold)
	if err != nil {
		return fmt.Errorf("could not style header: %w", err)
	}
	err = f.SetColWidth(SheetResults, "A", "I", 22)
	if err != nil {
		return fmt.Errorf("could not set column width: %w", err)
	}

	summary := Summarize(results)
	summaryRows := [][]interface{}{
		{"metric", "value"},
		{"total_tests", summary.Total},
		{"completed", summary.Completed},
		{"pending", summary.Pending},
		{"failed", summary.Failed},
		{"avg_inbox_rate_%", round1(summary.AvgInboxRate)},
		{"avg_spam_rate_%", round1(summary.AvgSpamRate)},
		{"avg_google_inbox_rate_%", round1(summary.AvgGoogleInboxRate)},
		{"avg_microsoft_inbox_rate_%", round1(summary.AvgMicrosoftInboxRate)},
	}
	for i, cells := range summaryRows {
		err = setRow(f, SheetSummary, i+1, cells)
		if err != nil {
			return err
		}
	}
	err = f.SetRowStyle(SheetSummary, 1, 1, bold)
	if err != nil {
		return fmt.Errorf("could not style header: %w", err)
	}
	err = f.SetColWidth(SheetSummary, "A", "A", 28)
	if err != nil {
		return fmt.Errorf("could not set column width: %w", err)
	}

	err = f.SaveAs(path)
	if err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	log.Logger(log.LOG_REPORT).WithFields(logrus.Fields{"file": path, "rows": len(results)}).Info("Wrote results workbook")
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("could not address row %d: %w", row, err)
	}
	err = f.SetSheetRow(sheet, cell, &cells)
	if err != nil {
		return fmt.Errorf("could not write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func resultCells(r domain.PollResult) []interface{} {
	return []interface{}{
		r.FromEmail,
		r.TestId,
		r.RawStatus,
		r.OverallScore,
		round1(r.Stats.InboxRate),
		round1(r.Stats.SpamRate),
		round1(r.Stats.GoogleInboxRate),
		round1(r.Stats.MicrosoftInboxRate),
		r.TestUrl,
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
