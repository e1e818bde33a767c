// Package export renders dataset rows as Excel, CSV and GeoJSON downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column is one exported field of T.
type Column[T any] struct {
	Header string
	Value  func(T) any
}

const sheetName = "Report"

// Excel builds a single-sheet workbook: title, generation time, a header
// row on row 4 and data from row 5, followed by a record count.
func Excel[T any](title string, cols []Column[T], rows []T) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", title)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)

	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("02-01-2006 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#1F6F8B"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: border("000000"),
	})

	for colIdx, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, col.Header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		name, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheetName, name, name, 20)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{Border: border("CCCCCC")})

	for rowIdx, row := range rows {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			if err := f.SetCellValue(sheetName, cell, col.Value(row)); err != nil {
				return nil, err
			}
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E7E6E6"},
			Pattern: 1,
		},
	})
	summaryRow := len(rows) + 6
	keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow)
	f.SetCellValue(sheetName, keyCell, "Total records")
	f.SetCellValue(sheetName, valueCell, len(rows))
	f.SetCellStyle(sheetName, keyCell, valueCell, summaryStyle)

	f.DeleteSheet("Sheet1")

	return f.WriteToBuffer()
}

func border(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

// CSV writes a header line followed by one record per row.
func CSV[T any](cols []Column[T], rows []T) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := make([]string, 0, len(cols))
	for _, col := range cols {
		headers = append(headers, col.Header)
	}
	writer.Write(headers)

	for _, row := range rows {
		record := make([]string, 0, len(cols))
		for _, col := range cols {
			record = append(record, fmt.Sprintf("%v", col.Value(row)))
		}
		writer.Write(record)
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// Filename returns "<name>_<timestamp>.<ext>" safe for Content-Disposition.
func Filename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(name), now.Format("20060102_150405"), ext)
}

func sanitizeFilename(filename string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, filename)
}
