package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"radioclub/internal/domain/export"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSXWriter renders export tables as a single-sheet .xlsx workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write renders t into w. Every cell is written as text so student ids keep
// their leading zeros.
// PRE: every row has len(t.Header) cells
// POST: w holds a complete workbook; the header is row 1 in bold
func (x *XLSXWriter) Write(w io.Writer, t export.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := export.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if len(t.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// ReadRows parses a workbook produced by Write and returns every row of the export sheet.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(export.SheetName)
}
