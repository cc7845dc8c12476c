package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes every view to its own sheet of one XLSX file. The
// header row is bold and frozen.
func WriteWorkbook(path string, views []View) error {
	if len(views) == 0 {
		return fmt.Errorf("no views to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, view := range views {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), view.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", view.Name, err)
			}
		} else if _, err := f.NewSheet(view.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", view.Name, err)
		}
		if err := writeSheet(f, view, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, view View, headerStyle int) error {
	sw, err := f.NewStreamWriter(view.Name)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", view.Name, err)
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", view.Name, err)
	}

	header := make([]interface{}, len(view.Headers))
	for i, h := range view.Headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", view.Name, err)
	}

	for i, row := range view.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, view.Name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %s: %w", view.Name, err)
	}
	return nil
}
