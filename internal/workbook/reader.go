// Package workbook loads the first sheet of an uploaded spreadsheet into an
// importer.Grid.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"dashpmo/internal/importer"
)

var (
	ErrUnsupportedFormat = errors.New("formato de arquivo não suportado: envie .xlsx ou .xls")
	ErrNoSheets          = errors.New("a planilha não contém abas")
	ErrUnreadable        = errors.New("não foi possível ler a planilha")
)

// Supported reports whether the file name has an accepted extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Read dispatches on the file extension.
func Read(filename string, r io.Reader) (importer.Grid, error) {
	if !Supported(filename) {
		return nil, fmt.Errorf("%w (%q)", ErrUnsupportedFormat, filename)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if strings.EqualFold(filepath.Ext(filename), ".xls") {
		return ReadXLS(bytes.NewReader(data))
	}
	return ReadXLSX(bytes.NewReader(data))
}

// ReadXLSX reads the first sheet with raw cell values. Numeric cells become
// float64 so date serials keep their value, or importer.Fraction when the
// cell is formatted as a percentage; text stays text.
func ReadXLSX(r io.Reader) (importer.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}

	percent := make(map[int]bool)
	grid := make(importer.Grid, 0, len(rows))
	for ri, row := range rows {
		out := make(importer.RawRow, len(row))
		for ci, v := range row {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			val := xlsxValue(typ, v)
			if num, ok := val.(float64); ok {
				pct, err := percentStyle(f, sheet, axis, percent)
				if err != nil {
					return nil, fmt.Errorf("cell %s style: %w", axis, err)
				}
				if pct {
					val = importer.Fraction(num)
				}
			}
			out[ci] = val
		}
		grid = append(grid, trimRow(out))
	}
	return grid, nil
}

func xlsxValue(typ excelize.CellType, v string) any {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeDate:
		return v
	case excelize.CellTypeBool:
		return v == "1" || strings.EqualFold(v, "true")
	case excelize.CellTypeError:
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// percentStyle reports whether the cell's number format is a percentage,
// either built-in (0% or 0.00%) or a custom format containing %.
func percentStyle(f *excelize.File, sheet, axis string, cache map[int]bool) (bool, error) {
	idx, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	if pct, ok := cache[idx]; ok {
		return pct, nil
	}
	style, err := f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	pct := style.NumFmt == 9 || style.NumFmt == 10 ||
		(style.CustomNumFmt != nil && strings.Contains(*style.CustomNumFmt, "%"))
	cache[idx] = pct
	return pct, nil
}

// ReadXLS reads the first sheet of a legacy workbook. The reader only exposes
// formatted strings, so numeric-looking cells are turned back into numbers.
func ReadXLS(r io.ReadSeeker) (importer.Grid, error) {
	wb, err := xls.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xls: %v", ErrUnreadable, err)
	}
	if len(wb.GetSheets()) == 0 {
		return nil, ErrNoSheets
	}
	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("open first xls sheet: %w", err)
	}

	var grid importer.Grid
	for _, row := range sheet.GetRows() {
		cols := row.GetCols()
		out := make(importer.RawRow, len(cols))
		for i, cell := range cols {
			out[i] = xlsValue(cell.GetString())
		}
		grid = append(grid, trimRow(out))
	}
	return grid, nil
}

func xlsValue(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return s
}

func trimRow(row importer.RawRow) importer.RawRow {
	end := len(row)
	for end > 0 && row[end-1] == nil {
		end--
	}
	return row[:end]
}
