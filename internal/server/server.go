// Package server exposes the FTE reports over HTTP: a JSON API, workbook
// downloads, prometheus metrics and an embedded upload page.
package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/iwvelando/fte-report/internal/ingest"
	"github.com/iwvelando/fte-report/internal/report"
	"github.com/iwvelando/fte-report/internal/workbook"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/output"
	"github.com/iwvelando/fte-report/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// filterFields names the form field each view reads its filter from.
var filterFields = map[report.View]string{
	report.ViewDivision:   "division",
	report.ViewInstructor: "instructor",
	report.ViewCourse:     "course",
	report.ViewEnrollment: "course",
	report.ViewDump:       "divisions",
}

type handler struct {
	logger        *zap.Logger
	reader        *ingest.Reader
	refs          *ingest.References
	policy        report.Options
	exporter      *workbook.Exporter
	metrics       *metrics
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI and report
// API. The reference tables are shared read-only by every request.
func NewHandler(logger *zap.Logger, refs *ingest.References, policy report.Options, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if refs == nil {
		refs = &ingest.References{}
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		reader:        ingest.NewReader(logger),
		refs:          refs,
		policy:        policy,
		exporter:      workbook.NewExporter(logger, ""),
		metrics:       newMetrics(),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/version", h.handleVersion)
		r.Post("/options", h.handleOptions)
		r.Post("/reports/{view}", h.handleReport)
		r.Post("/export/{view}", h.handleExport)
	})
	r.Method(http.MethodGet, "/metrics", h.metrics.handler())

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

// NewHTTPServer wraps a handler with the configured address and timeouts.
func NewHTTPServer(cfg *Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Timeout(),
		WriteTimeout:      cfg.Timeout(),
	}
}

type optionsResponse struct {
	ID          string             `json:"id"`
	Columns     []string           `json:"columns"`
	Divisions   []string           `json:"divisions"`
	Instructors []string           `json:"instructors"`
	Courses     []string           `json:"courses"`
	Diagnostics report.Diagnostics `json:"diagnostics"`
	Duration    string             `json:"duration"`
}

type reportResponse struct {
	ID          string             `json:"id"`
	View        report.View        `json:"view"`
	Reports     []reportTable      `json:"reports"`
	Unknown     []string           `json:"unknown,omitempty"`
	Diagnostics report.Diagnostics `json:"diagnostics"`
	Duration    string             `json:"duration"`
}

type reportTable struct {
	Title        string              `json:"title"`
	Label        string              `json:"label"`
	Columns      []string            `json:"columns"`
	Rows         [][]string          `json:"rows"`
	Summary      []summaryLine       `json:"summary"`
	Sections     int                 `json:"sections"`
	Excluded     int                 `json:"excluded"`
	Duplicates   int                 `json:"duplicates"`
	TotalFTE     float64             `json:"totalFte"`
	GeneratedFTE float64             `json:"generatedFte"`
	Chart        []report.ChartPoint `json:"chart,omitempty"`
	CSV          string              `json:"csv"`
}

type summaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Candidates []string `json:"candidates,omitempty"`
	Missing    []string `json:"missing,omitempty"`
}

func newReportTable(r *report.Report) reportTable {
	t := r.Table()
	summary := make([]summaryLine, 0, len(t.Summary))
	for _, line := range t.Summary {
		summary = append(summary, summaryLine{Label: line.Label, Value: line.Value})
	}
	return reportTable{
		Title:        t.Title,
		Label:        r.Label,
		Columns:      t.Columns,
		Rows:         t.Rows,
		Summary:      summary,
		Sections:     r.Sections,
		Excluded:     r.Excluded,
		Duplicates:   r.Duplicates,
		TotalFTE:     r.TotalFTE,
		GeneratedFTE: r.GeneratedFTE,
		Chart:        r.Chart(),
		CSV:          output.CsvString(t),
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const op = "server.handleOptions"

	session, err := h.session(w, r)
	if err != nil {
		h.respondError(w, r, op, "options", err)
		return
	}

	render.JSON(w, r, optionsResponse{
		ID:          session.ID,
		Columns:     session.Columns(),
		Divisions:   session.Divisions(),
		Instructors: session.Instructors(),
		Courses:     session.Courses(),
		Diagnostics: session.Diagnostics(),
		Duration:    time.Since(start).String(),
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const op = "server.handleReport"

	view, session, reports, unknown, err := h.generate(w, r)
	if err != nil {
		h.respondError(w, r, op, chi.URLParam(r, "view"), err)
		return
	}

	resp := reportResponse{
		ID:          session.ID,
		View:        view,
		Reports:     make([]reportTable, 0, len(reports)),
		Unknown:     unknown,
		Diagnostics: session.Diagnostics(),
	}
	generated := 0.0
	for _, rep := range reports {
		resp.Reports = append(resp.Reports, newReportTable(rep))
		generated += rep.GeneratedFTE
	}
	elapsed := time.Since(start)
	resp.Duration = elapsed.String()

	h.metrics.observe(string(view), "json", start, generated)
	h.logger.Info("report computed",
		zap.String("op", op),
		zap.String("session", session.ID),
		zap.String("view", string(view)),
		zap.Int("reports", len(reports)),
		zap.Duration("duration", elapsed),
	)
	render.JSON(w, r, resp)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const op = "server.handleExport"

	view, session, reports, unknown, err := h.generate(w, r)
	if err != nil {
		h.respondError(w, r, op, chi.URLParam(r, "view"), err)
		return
	}

	var sheets []workbook.Sheet
	var name string
	if view == report.ViewDump {
		result := &report.DumpResult{Reports: reports, Unknown: unknown}
		sheets, name = workbook.DumpSheets(result), workbook.DumpFileName(result)
	} else {
		sheets, name = workbook.SheetsFor(reports[0]), workbook.FileName(reports[0])
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, sheets...); err != nil {
		h.respondError(w, r, op, string(view), err)
		return
	}

	generated := 0.0
	for _, rep := range reports {
		generated += rep.GeneratedFTE
	}
	h.metrics.observe(string(view), "xlsx", start, generated)
	h.logger.Info("workbook exported",
		zap.String("op", op),
		zap.String("session", session.ID),
		zap.String("view", string(view)),
		zap.String("file", name),
		zap.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write workbook response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// generate reads the upload and filter of a report request and runs the view.
func (h *handler) generate(w http.ResponseWriter, r *http.Request) (report.View, *report.Session, []*report.Report, []string, error) {
	view, err := report.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		return "", nil, nil, nil, &requestError{msg: err.Error()}
	}

	session, err := h.session(w, r)
	if err != nil {
		return view, nil, nil, nil, err
	}

	value := strings.TrimSpace(r.FormValue(filterFields[view]))
	if value == "" {
		return view, nil, nil, nil, &requestError{msg: fmt.Sprintf("missing %s", filterFields[view])}
	}

	reports, unknown, err := session.Generate(view, value)
	if err != nil {
		return view, nil, nil, nil, err
	}
	return view, session, reports, unknown, nil
}

// session parses the multipart upload and builds the request's session.
func (h *handler) session(w http.ResponseWriter, r *http.Request) (*report.Session, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, &requestError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize),
			}
		}
		return nil, &requestError{msg: fmt.Sprintf("failed to parse upload: %v", err)}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &requestError{msg: "missing section file"}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.session"),
				zap.Error(closeErr),
			)
		}
	}()

	ds, err := h.reader.Sections(header.Filename, file)
	if err != nil {
		if validation.IsStructural(err) {
			return nil, err
		}
		return nil, &requestError{msg: err.Error()}
	}
	return report.NewSession(h.logger, ds, h.refs.ContactHours, h.refs.Tiers, h.policy), nil
}

// requestError is a problem with the request itself, answered with its
// status (400 unless set).
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func statusFor(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var reqErr *requestError
	var structural *validation.StructuralError
	var ambiguous *report.AmbiguousError
	switch {
	case errors.As(err, &reqErr):
		if reqErr.status != 0 {
			return reqErr.status, resp
		}
		return http.StatusBadRequest, resp
	case errors.As(err, &structural):
		resp.Missing = structural.Missing
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, report.ErrNoMatch):
		return http.StatusNotFound, resp
	case errors.As(err, &ambiguous):
		resp.Candidates = ambiguous.Candidates
		return http.StatusBadRequest, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, op, view string, err error) {
	status, resp := statusFor(err)
	h.metrics.fail(view, status)

	// Client errors log at warn.
	log := h.logger.Error
	if status < http.StatusInternalServerError {
		log = h.logger.Warn
	}
	log("report request failed",
		zap.String("op", op),
		zap.String("view", view),
		zap.Int("status", status),
		zap.Error(err),
	)

	render.Status(r, status)
	render.JSON(w, r, resp)
}
