package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/dta-calculator/internal/domain"
)

// CSVFormatter writes one row per foreign relief entry followed by a totals row.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"TaxYear", "Country", "CountryCode", "IncomeType", "ReliefMethod", "TreatyFound", "ExchangeRate", "Income", "ForeignTax", "UKTax", "Relief", "UKTaxAfterRelief"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	fr := result.ForeignRelief
	for _, e := range fr.Entries {
		row := []string{
			result.TaxYear,
			e.Country,
			e.CountryCode,
			string(e.IncomeType),
			e.ReliefType.String(),
			strconv.FormatBool(e.TreatyFound),
			e.ExchangeRate.String(),
			e.Income.StringFixed(2),
			e.ForeignTax.StringFixed(2),
			e.UKTax.StringFixed(2),
			e.Relief.StringFixed(2),
			e.UKTaxAfterRelief.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	total := []string{
		result.TaxYear, "TOTAL", "", "", "", "", "",
		fr.TotalForeignIncome.StringFixed(2),
		fr.TotalForeignTax.StringFixed(2),
		fr.TotalUKTax.StringFixed(2),
		fr.TotalRelief.StringFixed(2),
		fr.NetUKTaxDue.StringFixed(2),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
