package batchio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadJobs_CSVWithHeader(t *testing.T) {
	path := writeFile(t, "jobs.csv", "id,Designation,Company\n1,CEO,Acme\n2, cto , Globex \n")

	jobs, err := ReadJobs(path)
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{Row: 2, Company: "Acme", Designation: "CEO"},
		{Row: 3, Company: "Globex", Designation: "cto"},
	}, jobs)
}

func TestReadJobs_CSVWithoutHeader(t *testing.T) {
	path := writeFile(t, "jobs.csv", "Acme,CEO\n,\nInitech,\"VP, Sales\"\n")

	jobs, err := ReadJobs(path)
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{Row: 1, Company: "Acme", Designation: "CEO"},
		{Row: 3, Company: "Initech", Designation: "VP, Sales"},
	}, jobs)
}

func TestReadJobs_CSVSkipsComments(t *testing.T) {
	path := writeFile(t, "jobs.csv", "# exported list\ncompany,title\nAcme,CFO\n")

	jobs, err := ReadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "CFO", jobs[0].Designation)
}

func TestReadJobs_ShortRowKeepsCompany(t *testing.T) {
	path := writeFile(t, "jobs.csv", "Acme\n")

	jobs, err := ReadJobs(path)
	require.NoError(t, err)
	assert.Equal(t, []Job{{Row: 1, Company: "Acme"}}, jobs)
}

func TestReadJobs_TSV(t *testing.T) {
	path := writeFile(t, "jobs.tsv", "company\trole\nAcme\tFounder\n")

	jobs, err := ReadJobs(path)
	require.NoError(t, err)
	assert.Equal(t, []Job{{Row: 2, Company: "Acme", Designation: "Founder"}}, jobs)
}

func TestReadJobs_XLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Company", "Title"},
		{"Acme", "CEO"},
		{"", ""},
		{"Globex", "Head of Sales"},
	})

	jobs, err := ReadJobs(path)
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{Row: 2, Company: "Acme", Designation: "CEO"},
		{Row: 4, Company: "Globex", Designation: "Head of Sales"},
	}, jobs)
}

func TestReadJobs_Empty(t *testing.T) {
	path := writeFile(t, "jobs.csv", "")

	_, err := ReadJobs(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input is empty")
}

func TestReadJobs_UnsupportedExtension(t *testing.T) {
	_, err := ReadJobs("jobs.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestReadJobs_MissingFile(t *testing.T) {
	_, err := ReadJobs(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")
}

func TestHeaderColumns(t *testing.T) {
	c, d, ok := headerColumns([]string{" Position ", "Organization"})
	assert.True(t, ok)
	assert.Equal(t, 1, c)
	assert.Equal(t, 0, d)

	_, _, ok = headerColumns([]string{"Acme", "CEO"})
	assert.False(t, ok)
}
