// Package report builds the five FTE report views from one uploaded section
// dataset and the shared reference tables.
package report

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/fte-report/pkg/coursecode"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/iwvelando/fte-report/pkg/section"
	"go.uber.org/zap"
)

// Options configure a session.
type Options struct {
	// Support overrides the base support constant when set. Zero is a valid
	// override.
	Support *float64
	// CourseKey is the tier key granularity of the course report.
	CourseKey fte.KeyMode
}

// Diagnostics counts the problems absorbed while preparing a dataset. None
// of them stop a report.
type Diagnostics struct {
	Rows                  int `json:"rows"`
	MissingCourseCode     int `json:"missingCourseCode"`
	UnmatchedContactHours int `json:"unmatchedContactHours"`
	MissingTotalFTE       int `json:"missingTotalFte"`
	TierMisses            int `json:"tierMisses"`
	InvalidSectionNames   int `json:"invalidSectionNames"`
	InvalidCapacity       int `json:"invalidCapacity"`
	InvalidHeadcount      int `json:"invalidHeadcount"`
}

// Session is the request context of one report pass: an uploaded dataset
// joined against the reference tables and the calculator that prices it.
// It is immutable once built and is never shared between uploads.
type Session struct {
	ID string

	logger      *zap.Logger
	calc        *fte.Calculator
	columns     []string
	records     []section.Record
	courseKey   fte.KeyMode
	diagnostics Diagnostics
}

// NewSession backfills course codes, joins contact hours and orders the
// records for listing. Nil reference tables behave as empty ones.
func NewSession(logger *zap.Logger, ds section.Dataset, hours *section.ContactHoursTable, tiers *fte.TierTable, opts Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	var calcOpts []fte.Option
	if opts.Support != nil {
		calcOpts = append(calcOpts, fte.WithSupport(*opts.Support))
	}
	calc := fte.NewCalculator(logger, tiers, calcOpts...)

	records := section.BackfillCourseCodes(ds.Records)
	records, joined := section.Join(records, hours)
	section.SortForListing(records)

	_, stats := calc.ComputeAll(records, fte.KeyByPrefix)

	s := &Session{
		ID:        uuid.NewString(),
		logger:    logger,
		calc:      calc,
		columns:   append([]string(nil), ds.Columns...),
		records:   records,
		courseKey: opts.CourseKey,
	}

	d := Diagnostics{
		Rows:                  len(records),
		UnmatchedContactHours: joined.Unmatched,
		MissingTotalFTE:       stats.MissingFTE,
		TierMisses:            stats.TierMisses,
		InvalidSectionNames:   stats.InvalidNames,
	}
	for _, rec := range records {
		if !rec.HasCourseCode() {
			d.MissingCourseCode++
		}
		if !rec.Capacity.Valid {
			d.InvalidCapacity++
		}
		if !rec.Headcount.Valid {
			d.InvalidHeadcount++
		}
	}
	s.diagnostics = d

	logger.Debug("prepared session",
		zap.String("op", "report.NewSession"),
		zap.String("session", s.ID),
		zap.Int("rows", d.Rows),
		zap.Int("missingCourseCode", d.MissingCourseCode),
		zap.Int("unmatchedContactHours", d.UnmatchedContactHours),
		zap.Int("tierMisses", d.TierMisses),
	)
	return s
}

// Diagnostics returns the dataset-level problem counts.
func (s *Session) Diagnostics() Diagnostics {
	return s.diagnostics
}

// Support returns the support constant in effect.
func (s *Session) Support() float64 {
	return s.calc.Support()
}

// Columns returns the uploaded header in order.
func (s *Session) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Len is the number of uploaded section rows.
func (s *Session) Len() int {
	return len(s.records)
}

// Divisions lists the distinct non-blank divisions, sorted.
func (s *Session) Divisions() []string {
	return s.unique(func(r section.Record) string { return r.Division })
}

// Instructors lists the distinct non-blank faculty names, sorted.
func (s *Session) Instructors() []string {
	return s.unique(func(r section.Record) string { return r.FacultyName })
}

// Courses lists the distinct course codes, sorted.
func (s *Session) Courses() []string {
	return s.unique(func(r section.Record) string { return r.CourseCode })
}

func (s *Session) unique(field func(section.Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range s.records {
		v := field(rec)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ResolveDivision maps user input onto the stored spelling of a division,
// ignoring case and surrounding space.
func (s *Session) ResolveDivision(input string) (string, error) {
	want := strings.ToUpper(strings.TrimSpace(input))
	for _, div := range s.Divisions() {
		if strings.ToUpper(div) == want {
			return div, nil
		}
	}
	return "", &NoMatchError{Filter: "division", Value: input}
}

// MatchCourses returns the course codes containing the uppercased query.
func (s *Session) MatchCourses(query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return coursecode.Match(s.Courses(), query)
}

// ResolveCourse picks the course for a query: an exact code, or the only
// code that contains it.
func (s *Session) ResolveCourse(query string) (string, error) {
	want := strings.ToUpper(strings.TrimSpace(query))
	matches := s.MatchCourses(want)
	for _, code := range matches {
		if code == want {
			return code, nil
		}
	}
	switch len(matches) {
	case 0:
		return "", &NoMatchError{Filter: "course", Value: query}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Filter: "course", Value: query, Candidates: matches}
	}
}

// searchName normalizes a name for instructor search.
func searchName(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, ".", "")))
}

// MatchInstructors returns the instructors whose name contains the query,
// ignoring periods, surrounding space and case.
func (s *Session) MatchInstructors(query string) []string {
	want := searchName(query)
	if want == "" {
		return nil
	}
	var out []string
	for _, name := range s.Instructors() {
		if strings.Contains(searchName(name), want) {
			out = append(out, name)
		}
	}
	return out
}

// ResolveInstructor picks the instructor for a query: an exact name, or the
// only name that matches it.
func (s *Session) ResolveInstructor(query string) (string, error) {
	want := strings.TrimSpace(query)
	matches := s.MatchInstructors(want)
	for _, name := range matches {
		if name == want {
			return name, nil
		}
	}
	switch len(matches) {
	case 0:
		return "", &NoMatchError{Filter: "instructor", Value: query}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Filter: "instructor", Value: query, Candidates: matches}
	}
}
