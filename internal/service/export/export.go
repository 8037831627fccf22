// Package export renders record collections as downloadable tables.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/cattlehealth/internal/csvtext"
)

const (
	// ContentTypeCSV is served with CSV downloads.
	ContentTypeCSV = "text/csv;charset=utf-8;"
	// ContentTypeXLSX is served with workbook downloads.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Export"
)

var (
	// ErrNoData is returned for an empty collection.
	ErrNoData = errors.New("no data to export")
	// ErrUnsupportedRecords is returned when records is not a slice of structs.
	ErrUnsupportedRecords = errors.New("records must be a slice of structs")
)

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// CSV renders records as <stem>_<YYYY-MM-DD>.csv. Columns are the json names
// of the first record's fields; nil values render empty.
func CSV(records any, stem string, now time.Time) (*File, error) {
	headers, cells, err := table(records)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(cells))
	for _, row := range cells {
		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = formatCell(cell)
		}
		rows = append(rows, values)
	}

	return &File{
		Name:        filename(stem, now, "csv"),
		ContentType: ContentTypeCSV,
		Content:     []byte(csvtext.Encode(headers, rows)),
	}, nil
}

// XLSX renders the same table as a workbook with a bold, frozen header row.
// Numbers are written as numeric cells.
func XLSX(records any, stem string, now time.Time) (*File, error) {
	headers, cells, err := table(records)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}

	for rowIdx, row := range cells {
		for colIdx, value := range row {
			if value == nil || value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &File{
		Name:        filename(stem, now, "xlsx"),
		ContentType: ContentTypeXLSX,
		Content:     buf.Bytes(),
	}, nil
}

func filename(stem string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", stem, now.UTC().Format(time.DateOnly), ext)
}

type column struct {
	name  string
	index []int
}

// table flattens a slice of structs into headers and cell values. Embedded
// structs contribute their fields in place; fields tagged json:"-" are skipped.
func table(records any) ([]string, [][]any, error) {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return nil, nil, ErrUnsupportedRecords
	}
	if v.Len() == 0 {
		return nil, nil, ErrNoData
	}

	elem := v.Type().Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, nil, ErrUnsupportedRecords
	}

	columns := columnsOf(elem, nil)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.name
	}

	rows := make([][]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := reflect.Indirect(v.Index(i))
		row := make([]any, len(columns))
		if item.IsValid() {
			for j, c := range columns {
				row[j] = cellValue(item.FieldByIndex(c.index))
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func columnsOf(t reflect.Type, parent []int) []column {
	var out []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		index := append(append([]int{}, parent...), i)

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			out = append(out, columnsOf(field.Type, index)...)
			continue
		}
		if name == "" {
			name = field.Name
		}
		out = append(out, column{name: name, index: index})
	}
	return out
}

func cellValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	default:
		return fmt.Sprint(v.Interface())
	}
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
