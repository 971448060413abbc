package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"poolscreen/domain/core"
	"poolscreen/domain/pooling"

	"github.com/xuri/excelize/v2"
)

// Column headers recognized in the first row, matched case-insensitively.
const (
	valueHeader = "value"
	scoreHeader = "score"
)

// CohortReader handles reading cohort files in Excel and CSV formats
type CohortReader struct {
	fileType string // "xlsx" or "csv"
}

// NewCohortReader creates a reader that handles both Excel and CSV files
func NewCohortReader(filePath string) *CohortReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &CohortReader{fileType: fileType}
}

// Read loads the cohort's value/score columns from path.
func (r *CohortReader) Read(path string) (pooling.Cohort, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return pooling.Cohort{}, fmt.Errorf("%w: %s", core.ErrCohortUnreadable, path)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = readCSVRows(path)
	case "xlsx":
		rows, err = readExcelRows(path)
	default:
		return pooling.Cohort{}, fmt.Errorf("%w: unsupported file type %s", core.ErrCohortUnreadable, r.fileType)
	}
	if err != nil {
		return pooling.Cohort{}, err
	}

	return cohortFromRows(rows)
}

// readExcelRows reads the first sheet of an xlsx workbook.
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCohortUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrCohortUnreadable)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCohortUnreadable, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCohortUnreadable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows validated during parsing
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCohortUnreadable, err)
	}
	return rows, nil
}

// cohortFromRows locates the value/score columns by header and parses
// every following row.
func cohortFromRows(rows [][]string) (pooling.Cohort, error) {
	if len(rows) < 2 {
		return pooling.Cohort{}, fmt.Errorf("%w: need a header row and at least one subject", core.ErrCohortUnreadable)
	}

	valueCol, scoreCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case valueHeader:
			valueCol = i
		case scoreHeader:
			scoreCol = i
		}
	}
	if valueCol < 0 {
		return pooling.Cohort{}, core.NewColumnError(valueHeader)
	}
	if scoreCol < 0 {
		return pooling.Cohort{}, core.NewColumnError(scoreHeader)
	}

	values := make([]float64, 0, len(rows)-1)
	scores := make([]float64, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		if len(row) <= valueCol || len(row) <= scoreCol {
			return pooling.Cohort{}, fmt.Errorf("%w: row %d is short", core.ErrCohortUnreadable, rowIdx+2)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueCol]), 64)
		if err != nil {
			return pooling.Cohort{}, fmt.Errorf("%w: row %d value %q", core.ErrCohortUnreadable, rowIdx+2, row[valueCol])
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreCol]), 64)
		if err != nil {
			return pooling.Cohort{}, fmt.Errorf("%w: row %d score %q", core.ErrCohortUnreadable, rowIdx+2, row[scoreCol])
		}
		values = append(values, value)
		scores = append(scores, score)
	}

	return pooling.NewCohort(values, scores)
}
