package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"surveycli/internal/config"
)

// XLSXWriter exports tables as Excel workbooks for sharing outside the
// analysis pipeline
type XLSXWriter struct {
	paths *config.Paths
}

// NewXLSXWriter creates a new workbook writer instance
func NewXLSXWriter(paths *config.Paths) *XLSXWriter {
	return &XLSXWriter{paths: paths}
}

// WriteTable writes a data frame to a single-sheet workbook with a bold
// header row. Numeric columns become numeric cells; missing values stay
// empty. An empty sheet name defaults to Sheet1.
func (w *XLSXWriter) WriteTable(filePath, sheet string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("refusing to write frame with error: %w", df.Err)
	}
	if sheet == "" {
		sheet = "Sheet1"
	}

	fullPath := w.resolvePath(filePath)

	slog.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.String("sheet", sheet),
		slog.Int("rows", df.Nrow()))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := w.writeHeader(f, sheet, df.Names()); err != nil {
		return err
	}

	types := df.Types()
	for r := 0; r < df.Nrow(); r++ {
		for c := 0; c < df.Ncol(); c++ {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := setCell(f, sheet, cell, df.Elem(r, c), types[c]); err != nil {
				return err
			}
		}
	}

	if err := w.sizeColumns(f, sheet, df.Ncol()); err != nil {
		return err
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeHeader writes the bold header row
func (w *XLSXWriter) writeHeader(f *excelize.File, sheet string, names []string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	var last string
	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header %q: %w", name, err)
		}
		last = cell
	}

	if last != "" {
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("failed to style header row: %w", err)
		}
	}
	return nil
}

// sizeColumns widens the first column for row labels and gives the rest a
// uniform readable width
func (w *XLSXWriter) sizeColumns(f *excelize.File, sheet string, ncol int) error {
	if ncol == 0 {
		return nil
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return fmt.Errorf("failed to size label column: %w", err)
	}
	if ncol > 1 {
		last, err := excelize.ColumnNumberToName(ncol)
		if err != nil {
			return fmt.Errorf("failed to name last column: %w", err)
		}
		if err := f.SetColWidth(sheet, "B", last, 16); err != nil {
			return fmt.Errorf("failed to size data columns: %w", err)
		}
	}
	return nil
}

// setCell writes one element with its native type; missing values leave the
// cell empty
func setCell(f *excelize.File, sheet, cell string, e series.Element, t series.Type) error {
	if e.IsNA() {
		return nil
	}
	switch t {
	case series.Float:
		v := e.Float()
		if math.IsNaN(v) {
			return nil
		}
		return f.SetCellValue(sheet, cell, v)
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return f.SetCellValue(sheet, cell, v)
	case series.Bool:
		v, err := e.Bool()
		if err != nil {
			return nil
		}
		return f.SetCellValue(sheet, cell, v)
	default:
		return f.SetCellValue(sheet, cell, e.String())
	}
}

// resolvePath resolves a path to the appropriate directory
func (w *XLSXWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	if w.paths != nil {
		return w.paths.GetReportPath(filePath)
	}
	return filePath
}
