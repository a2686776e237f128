package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/dta-calculator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleInput = "../../testdata/example_input.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, referenceFile = false, ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalculateCommand(t *testing.T) {
	out, err := run(t, "calculate", "-i", exampleInput)
	require.NoError(t, err)
	assert.Contains(t, out, "TAX CALCULATION 2024-25 (GBP)")
	assert.Contains(t, out, "United Arab Emirates [AE] employment (exemption)")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestCalculateCommand_Formats(t *testing.T) {
	out, err := run(t, "calculate", "-i", exampleInput, "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "TaxYear,Country,CountryCode")

	_, err = run(t, "calculate", "-i", exampleInput, "-f", "pdf")
	assert.Error(t, err)
}

func TestCalculateCommand_Save(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "calculate", "-i", exampleInput, "-f", "json", "--save", dir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "tax_report_2024-25_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCalculateCommand_MissingInput(t *testing.T) {
	_, err := run(t, "calculate")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "-i", exampleInput)
	require.NoError(t, err)
	assert.Contains(t, out, "3 record(s) valid")
}

func TestValidateCommand_NegativeDeduction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tax_year: \"2024-25\"\ndeductions:\n  business_expenses: -100\n"), 0o644))

	out, err := run(t, "validate", "-i", path)
	assert.Error(t, err)
	assert.Contains(t, out, "UK figures: deductions.business_expenses cannot be negative")
}

func TestTreatiesCommand(t *testing.T) {
	out, err := run(t, "treaties")
	require.NoError(t, err)
	assert.Contains(t, out, "Switzerland")
	assert.Contains(t, out, "hybrid")
	assert.Contains(t, out, "75.00%")
}

func TestExampleCommandRoundTrips(t *testing.T) {
	out, err := run(t, "example")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	input, err := config.NewInputParser().LoadInput(path)
	require.NoError(t, err)
	assert.NotEmpty(t, input.TaxYear)
	assert.Len(t, input.ForeignIncome, 3)
}

func TestReferenceFlag(t *testing.T) {
	_, err := run(t, "treaties", "-r", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrInvalidReferenceData)
}
