// Package batchio reads batch inputs of (company, designation) rows and
// writes resolver results.
package batchio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Job is one row of a batch input. Row is 1-based in the source file.
type Job struct {
	Row         int
	Company     string
	Designation string
}

var (
	companyHeaders     = []string{"company", "company_name", "organization"}
	designationHeaders = []string{"designation", "title", "role", "position"}
)

// ReadJobs loads jobs from a .csv, .tsv or .xlsx file.
func ReadJobs(path string) ([]Job, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "batchio: open input")
		}
		defer f.Close() //nolint:errcheck

		delim := ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			delim = '\t'
		}
		rows, err := readCSV(f, delim)
		if err != nil {
			return nil, err
		}
		return rowsToJobs(rows)
	case ".xlsx":
		rows, err := readXLSX(path)
		if err != nil {
			return nil, err
		}
		return rowsToJobs(rows)
	default:
		return nil, eris.Errorf("batchio: unsupported input format %q", filepath.Ext(path))
	}
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batchio: read csv")
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batchio: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("batchio: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// rowsToJobs maps raw rows to jobs. A first row naming the company and
// designation columns is used as a header; otherwise the first two columns
// are used. Blank rows are skipped.
func rowsToJobs(rows [][]string) ([]Job, error) {
	if len(rows) == 0 {
		return nil, eris.New("batchio: input is empty")
	}

	companyCol, designationCol, start := 0, 1, 0
	if c, d, ok := headerColumns(rows[0]); ok {
		companyCol, designationCol, start = c, d, 1
	}

	var jobs []Job
	for i := start; i < len(rows); i++ {
		company := cell(rows[i], companyCol)
		designation := cell(rows[i], designationCol)
		if company == "" && designation == "" {
			continue
		}
		jobs = append(jobs, Job{Row: i + 1, Company: company, Designation: designation})
	}
	return jobs, nil
}

func headerColumns(row []string) (company, designation int, ok bool) {
	company, designation = -1, -1
	for i, h := range row {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case company < 0 && slices.Contains(companyHeaders, h):
			company = i
		case designation < 0 && slices.Contains(designationHeaders, h):
			designation = i
		}
	}
	return company, designation, company >= 0 && designation >= 0
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
