package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StripsLineWrappingQuotes(t *testing.T) {
	input := strings.Join([]string{
		`"ResourceID,Service,MonthlyCostUSD,Tagged"`,
		`"R1,EC2,100.5,No"`,
		`"R2,S3,,Yes"`,
	}, "\n")

	inv, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"ResourceID", "Service", "MonthlyCostUSD", "Tagged"}, inv.Header)
	require.Len(t, inv.Rows, 2)
	assert.Equal(t, "R1", inv.Rows[0]["ResourceID"])
	assert.Equal(t, "100.5", inv.Rows[0]["MonthlyCostUSD"])
	assert.Equal(t, "", inv.Rows[1]["MonthlyCostUSD"])
}

func TestParse_ToleratesRaggedRows(t *testing.T) {
	input := "ResourceID,Service,Owner\nR1,EC2\n"

	inv, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inv.Rows, 1)
	assert.Equal(t, "EC2", inv.Rows[0]["Service"])
	assert.Equal(t, "", inv.Rows[0]["Owner"])
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoad_RoundTripFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	content := "\"ResourceID,Department\"\n\"R1,Eng\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	inv, err := Load(path)
	require.NoError(t, err)
	require.Len(t, inv.Rows, 1)
	assert.Equal(t, "Eng", inv.Rows[0]["Department"])
}

func TestExport_PreservesColumnOrder(t *testing.T) {
	engine := compliance.NewEngine(compliance.Options{})
	table, err := engine.Load(context.Background(),
		[]string{"ResourceID", "Service", "MonthlyCostUSD", "Tagged", "Environment"},
		[]map[string]string{
			{"ResourceID": "R1", "Service": "EC2", "MonthlyCostUSD": "100.5", "Tagged": "No", "Environment": "Prod"},
			{"ResourceID": "R2", "Service": "S3", "MonthlyCostUSD": "junk", "Tagged": "Yes"},
		})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, table, ExportOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ResourceID,Service,MonthlyCostUSD,Tagged,Environment", lines[0])
	assert.Equal(t, "R1,EC2,100.5,No,Prod", lines[1])
	// unparseable cost exports as an empty cell, null env likewise
	assert.Equal(t, "R2,S3,,Yes,", lines[2])
}

func TestExport_AppendsDerivedColumnsOnRequest(t *testing.T) {
	engine := compliance.NewEngine(compliance.Options{})
	table, err := engine.Load(context.Background(),
		[]string{"ResourceID", "Tagged", "Environment", "Department"},
		[]map[string]string{
			{"ResourceID": "R1", "Department": "Eng"},
		})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, table, ExportOptions{IncludeDerived: true}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "ResourceID,Tagged,Environment,Department,TagCompletenessScore,Tagged_Status,Environment_Status", lines[0])
	assert.Equal(t, "R1,,,Eng,1,Missing,Missing", lines[1])
}
