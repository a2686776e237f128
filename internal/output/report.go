package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rpgo/dta-calculator/internal/domain"
)

// Render formats result with the named formatter and writes it to w.
func Render(w io.Writer, result *domain.TaxCalculationResult, format string) error {
	f, err := LookupFormatter(format)
	if err != nil {
		return err
	}
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, result *domain.TaxCalculationResult, dir string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("tax_report_%s_%s.%s", result.TaxYear, time.Now().Format("20060102_150405"), extensionFor(f)))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

func extensionFor(f Formatter) string {
	switch f.Name() {
	case "console":
		return "txt"
	default:
		return f.Name()
	}
}
