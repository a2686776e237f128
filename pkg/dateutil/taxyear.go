package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UK tax years run 6 April to 5 April inclusive and are named "2024-25".

// TaxYearStart returns 6 April of the given calendar year
func TaxYearStart(year int) time.Time {
	return time.Date(year, time.April, 6, 0, 0, 0, 0, time.UTC)
}

// TaxYearName formats the tax year starting in the given calendar year
func TaxYearName(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// TaxYearFor returns the name of the tax year containing the date
func TaxYearFor(date time.Time) string {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	year := day.Year()
	if day.Before(TaxYearStart(year)) {
		year--
	}
	return TaxYearName(year)
}

// ParseTaxYear parses a "YYYY-YY" name and returns its first and last day
func ParseTaxYear(name string) (time.Time, time.Time, error) {
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid tax year %q (expected YYYY-YY)", name)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start year in tax year %q", name)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end year in tax year %q", name)
	}
	if (start+1)%100 != end {
		return time.Time{}, time.Time{}, fmt.Errorf("tax year %q must span consecutive years", name)
	}
	return TaxYearStart(start), TaxYearStart(start+1).AddDate(0, 0, -1), nil
}

// InTaxYear reports whether the date falls within the named tax year
func InTaxYear(name string, date time.Time) bool {
	start, end, err := ParseTaxYear(name)
	if err != nil {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}
