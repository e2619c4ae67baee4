// Package report renders the dashboard's aggregate views into an Excel
// workbook for offline review.
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/losmon/losmon/internal/domain/analytics"
)

// Source supplies the views the workbook is built from. The analytics
// service satisfies it.
type Source interface {
	PatientSummary(ctx context.Context) ([]*analytics.PatientSummaryRow, error)
	DepartmentStats(ctx context.Context) ([]*analytics.DepartmentStats, error)
	LOSDistribution(ctx context.Context) ([]*analytics.LOSDistributionRow, error)
	RecentVitals(ctx context.Context) ([]*analytics.RecentVitalsRow, error)
}

// Sheet names in workbook order.
const (
	SheetPatients     = "Patients"
	SheetDepartments  = "Department Stats"
	SheetDistribution = "LOS Distribution"
	SheetVitals       = "Recent Vitals"
)

const dateFormat = "2006-01-02 15:04:05"

var patientHeader = []string{
	"Patient ID", "Department", "Diagnosis", "Admission Date",
	"Predicted LOS (days)", "Tracking Records",
}

var departmentHeader = []string{
	"Department", "Active Patients", "Avg Predicted LOS (days)", "Avg Severity",
}

var distributionHeader = []string{"Patient ID", "Department", "Current LOS (days)"}

var vitalsHeader = []string{
	"Patient ID", "Department", "Last Observed",
	"Heart Rate", "Blood Pressure", "Temperature", "Oxygen Saturation",
}

// Exporter builds the workbook.
type Exporter struct {
	source Source
}

func NewExporter(source Source) *Exporter {
	return &Exporter{source: source}
}

// Generate builds a four-sheet workbook from the current store contents and
// returns it as xlsx bytes. Empty views produce sheets with headers only.
func (e *Exporter) Generate(ctx context.Context) ([]byte, error) {
	summary, err := e.source.PatientSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patient summary: %w", err)
	}
	stats, err := e.source.DepartmentStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load department stats: %w", err)
	}
	dist, err := e.source.LOSDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("load los distribution: %w", err)
	}
	vitals, err := e.source.RecentVitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recent vitals: %w", err)
	}

	f := excelize.NewFile()
	// Close after WriteTo; WriteTo needs the file open.

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	patientRows := make([][]any, 0, len(summary))
	for _, row := range summary {
		patientRows = append(patientRows, []any{
			row.PatientID, row.Department, row.Diagnosis,
			row.AdmissionDate.Format(dateFormat),
			row.PredictedLOS, row.TrackingRecords,
		})
	}
	if err := writeSheet(f, SheetPatients, headerStyle, patientHeader, patientRows); err != nil {
		f.Close()
		return nil, err
	}

	statRows := make([][]any, 0, len(stats))
	for _, row := range stats {
		statRows = append(statRows, []any{
			row.Department, row.PatientCount, row.AvgPredictedLOS, row.AvgSeverity,
		})
	}
	if err := writeSheet(f, SheetDepartments, headerStyle, departmentHeader, statRows); err != nil {
		f.Close()
		return nil, err
	}

	distRows := make([][]any, 0, len(dist))
	for _, row := range dist {
		distRows = append(distRows, []any{row.PatientID, row.Department, row.CurrentLOS})
	}
	if err := writeSheet(f, SheetDistribution, headerStyle, distributionHeader, distRows); err != nil {
		f.Close()
		return nil, err
	}

	vitalRows := make([][]any, 0, len(vitals))
	for _, row := range vitals {
		out := []any{row.PatientID, row.Department, "", "", "", "", ""}
		if row.TrackingDate != nil {
			out[2] = row.TrackingDate.Format(dateFormat)
		}
		if row.VitalSigns != nil {
			out[3] = row.VitalSigns.HeartRate
			out[4] = row.VitalSigns.BloodPressure
			out[5] = row.VitalSigns.Temperature
			out[6] = row.VitalSigns.OxygenSaturation
		}
		vitalRows = append(vitalRows, out)
	}
	if err := writeSheet(f, SheetVitals, headerStyle, vitalsHeader, vitalRows); err != nil {
		f.Close()
		return nil, err
	}

	// The default Sheet1 is replaced by our sheets.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetPatients); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, headerStyle int, header []string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header coordinates: %w", err)
		}
		if err := f.SetCellValue(name, cell, title); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(name, colName, colName, 20); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+2, name, err)
		}
	}

	// Keep the header visible while scrolling.
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
