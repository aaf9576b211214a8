package batchio

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/people-finder/internal/model"
)

// Output formats.
const (
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

// Record is one resolved batch row.
type Record struct {
	Row         int          `json:"row"`
	Company     string       `json:"company"`
	Designation string       `json:"designation"`
	Result      model.Result `json:"result"`
}

// Writer persists records in some output format.
type Writer interface {
	Write(rec Record) error
	// Close flushes buffered output. It does not close the underlying
	// io.Writer.
	Close() error
}

// NewWriter returns a Writer for format over w.
func NewWriter(w io.Writer, format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "", FormatJSONL, "json":
		return &jsonlWriter{enc: json.NewEncoder(w)}, nil
	case FormatCSV:
		cw := csv.NewWriter(w)
		return &csvWriter{w: cw}, nil
	case FormatXLSX:
		return newXLSXWriter(w)
	default:
		return nil, eris.Errorf("batchio: unknown output format %q", format)
	}
}

var columns = []string{
	"row", "company", "designation", "found", "first_name", "last_name",
	"current_title", "source_url", "confidence_score", "sources_checked", "error",
}

func recordFields(rec Record) []string {
	r := rec.Result
	return []string{
		strconv.Itoa(rec.Row),
		rec.Company,
		rec.Designation,
		strconv.FormatBool(r.Found),
		r.FirstName,
		r.LastName,
		r.CurrentTitle,
		r.SourceURL,
		strconv.FormatFloat(r.ConfidenceScore, 'f', 2, 64),
		strings.Join(r.SourcesChecked, " "),
		r.ErrorMessage(),
	}
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (j *jsonlWriter) Write(rec Record) error {
	return eris.Wrap(j.enc.Encode(rec), "batchio: write jsonl")
}

func (j *jsonlWriter) Close() error { return nil }

type csvWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func (c *csvWriter) Write(rec Record) error {
	if !c.wroteHeader {
		if err := c.w.Write(columns); err != nil {
			return eris.Wrap(err, "batchio: write csv header")
		}
		c.wroteHeader = true
	}
	return eris.Wrap(c.w.Write(recordFields(rec)), "batchio: write csv row")
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	return eris.Wrap(c.w.Error(), "batchio: flush csv")
}

type xlsxWriter struct {
	out   io.Writer
	file  *xlsx.File
	sheet *xlsx.Sheet
}

func newXLSXWriter(w io.Writer) (*xlsxWriter, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("results")
	if err != nil {
		return nil, eris.Wrap(err, "batchio: add sheet")
	}
	x := &xlsxWriter{out: w, file: f, sheet: sheet}
	x.addRow(columns)
	return x, nil
}

func (x *xlsxWriter) addRow(fields []string) {
	row := x.sheet.AddRow()
	for _, f := range fields {
		row.AddCell().SetString(f)
	}
}

func (x *xlsxWriter) Write(rec Record) error {
	x.addRow(recordFields(rec))
	return nil
}

func (x *xlsxWriter) Close() error {
	return eris.Wrap(x.file.Write(x.out), "batchio: write xlsx")
}
