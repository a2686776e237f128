package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/dta-calculator/internal/calculation"
	"github.com/rpgo/dta-calculator/internal/config"
	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/rpgo/dta-calculator/internal/output"
	"github.com/rpgo/dta-calculator/pkg/dateutil"
)

const (
	maxBodyBytes = 1 << 20

	// CalculationIDHeader carries the identifier stamped on each calculation response
	CalculationIDHeader = "X-Calculation-ID"
)

// Handler holds the engine and collaborators shared by every route.
type Handler struct {
	Engine  *calculation.Engine
	Parser  *config.InputParser
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewHandler creates a handler over a ready engine.
func NewHandler(engine *calculation.Engine, metrics *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Engine:  engine,
		Parser:  config.NewInputParser(),
		Metrics: metrics,
		Logger:  logger,
	}
}

// Calculate runs a full calculation. The body is a TaxInput in JSON (or YAML).
// ?format=console|csv renders the result through the output formatters.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.Metrics.IncrementOutcome("bad_request")
		writeError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	input, err := h.Parser.ParseInput(body)
	if err != nil {
		h.Metrics.IncrementOutcome("bad_request")
		writeError(w, http.StatusBadRequest, "invalid calculation input", err)
		return
	}

	var formatter output.Formatter
	if format := r.URL.Query().Get("format"); format != "" && output.NormalizeFormatName(format) != "json" {
		if formatter, err = output.LookupFormatter(format); err != nil {
			h.Metrics.IncrementOutcome("bad_request")
			writeError(w, http.StatusBadRequest, "unsupported format", err)
			return
		}
	}

	start := time.Now()
	result, err := h.Engine.Calculate(*input)
	h.Metrics.ObserveCalculateLatency(time.Since(start))
	if err != nil {
		if errors.Is(err, calculation.ErrUnknownTaxYear) || errors.Is(err, calculation.ErrMissingUKTaxRate) {
			h.Metrics.IncrementOutcome("bad_request")
			writeError(w, http.StatusBadRequest, "calculation rejected", err)
			return
		}
		h.Metrics.IncrementOutcome("error")
		h.Logger.Error("calculation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "calculation failed", err)
		return
	}
	h.Metrics.IncrementOutcome("ok")
	h.recordFindings(result)

	id := uuid.NewString()
	w.Header().Set(CalculationIDHeader, id)
	h.Logger.Info("calculation complete", "calculation_id", id, "tax_year", result.TaxYear,
		"liability", result.Summary.TotalLiability.StringFixed(2))

	if formatter == nil {
		writeJSON(w, http.StatusOK, result)
		return
	}
	data, err := formatter.Format(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render result", err)
		return
	}
	contentType := "text/plain; charset=utf-8"
	if formatter.Name() == "csv" {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) recordFindings(result *domain.TaxCalculationResult) {
	for _, e := range result.Validation.Errors {
		h.Metrics.IncrementIssue(string(e.Severity), string(e.Code))
	}
	for _, w := range result.Validation.Warnings {
		h.Metrics.IncrementIssue(string(w.Severity), string(w.Code))
	}
	for _, rec := range result.Recommendations {
		h.Metrics.IncrementRecommendation(string(rec.Code))
	}
}

// Validate screens foreign income records without calculating.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.Validate(req.ForeignIncome))
}

// ListTreaties returns the treaty registry sorted by country code.
func (h *Handler) ListTreaties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTreatyDTOs(h.Engine.Treaties.All()))
}

// ListTaxYears returns the configured tax years with their date ranges.
func (h *Handler) ListTaxYears(w http.ResponseWriter, r *http.Request) {
	names := h.Engine.TaxYears()
	now := time.Now()
	out := make([]TaxYearDTO, 0, len(names))
	for _, name := range names {
		start, end, err := dateutil.ParseTaxYear(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("bad tax year %q", name), err)
			return
		}
		out = append(out, TaxYearDTO{
			Name:      name,
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
			Current:   dateutil.InTaxYear(name, now),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
