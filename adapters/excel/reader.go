package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ocev/domain/evidence"
	"ocev/ports"
)

var _ ports.EvidenceReaderPort = (*DataReader)(nil)

// TableData is tabular input in column-oriented form.
type TableData struct {
	Headers []string
	Rows    [][]string
}

// DataReader reads Excel and CSV files into TableData and derives
// evidence records from them.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the raw table from the configured file.
func (r *DataReader) ReadTable() (*TableData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadRecords implements ports.EvidenceReaderPort: read the table and
// derive normalized evidence records for the declared test type. An empty
// path or the configured path reads through this reader; a different path
// re-points it.
func (r *DataReader) ReadRecords(path string, testType evidence.TestType) ([]evidence.Record, error) {
	reader := r
	if path != "" && path != r.filePath {
		reader = NewDataReader(path)
	}
	table, err := reader.ReadTable()
	if err != nil {
		return nil, err
	}
	return DeriveRecords(table, testType)
}

func (r *DataReader) readExcel() (*TableData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	log.Printf("[DataReader] Sheet1 read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return tableFromRows(rows)
}

func (r *DataReader) readCSV() (*TableData, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (*TableData, error) {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &TableData{Headers: headers, Rows: rows[1:]}, nil
}

// Column returns the values of the named column, or ok=false.
func (t *TableData) Column(name string) ([]string, bool) {
	idx := -1
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, strings.TrimSpace(row[idx]))
		} else {
			out = append(out, "")
		}
	}
	return out, true
}

// NumericColumn returns the named column parsed as floats, skipping blanks.
func (t *TableData) NumericColumn(name string) ([]float64, bool) {
	raw, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, true
}
