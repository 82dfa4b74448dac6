// Package fte computes Total FTE and Generated FTE for section records.
package fte

import (
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/mathutil"
	"github.com/iwvelando/fte-report/pkg/section"
	"go.uber.org/zap"
)

// KeyMode selects how a section is matched against the tier table.
type KeyMode int

const (
	// KeyByPrefix looks up the first three characters of the section name.
	KeyByPrefix KeyMode = iota
	// KeyByCourse looks up the full course code, falling back to the prefix
	// when the table holds no entry for the code.
	KeyByCourse
)

func (m KeyMode) String() string {
	switch m {
	case KeyByCourse:
		return constants.TierKeyCourse
	default:
		return constants.TierKeyPrefix
	}
}

// ParseKeyMode maps a configuration value to a KeyMode.
func ParseKeyMode(value string) (KeyMode, bool) {
	switch value {
	case constants.TierKeyCourse:
		return KeyByCourse, true
	case constants.TierKeyPrefix:
		return KeyByPrefix, true
	default:
		return KeyByPrefix, false
	}
}

// TotalFTE is round(contactHours * 16 * headcount / 512, 3) with ties to
// even. It is invalid when either input is.
func TotalFTE(contactHours, headcount section.Number) section.Number {
	if !contactHours.Valid || !headcount.Valid {
		return section.Number{}
	}
	raw := contactHours.Value * constants.WeeksPerTerm * headcount.Value / constants.FTEDivisor
	return section.NewNumber(mathutil.RoundHalfEven(raw, constants.FTEPrecision))
}

// Generated is totalFTE * (multiplier + support).
func Generated(totalFTE, multiplier, support float64) float64 {
	return totalFTE * (multiplier + support)
}

// Section is a record with its FTE metrics attached.
type Section struct {
	section.Record

	TotalFTE     section.Number
	TierKey      string
	Multiplier   float64
	TierMatched  bool
	GeneratedFTE float64
}

// Stats counts the per-row problems that were absorbed while computing.
type Stats struct {
	Rows         int
	MissingFTE   int
	TierMisses   int
	InvalidNames int
}

// Calculator applies the tier table and support constant to records.
type Calculator struct {
	logger  *zap.Logger
	tiers   *TierTable
	support float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithSupport overrides the base support constant.
func WithSupport(support float64) Option {
	return func(c *Calculator) {
		c.support = support
	}
}

// NewCalculator creates a calculator with the given logger and tier table.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewCalculator(logger *zap.Logger, tiers *TierTable, opts ...Option) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tiers == nil {
		tiers = NewTierTable(nil)
	}
	c := &Calculator{logger: logger, tiers: tiers, support: constants.BaseSupportConstant}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Support returns the support constant in use.
func (c *Calculator) Support() float64 {
	return c.support
}

// Compute derives the metrics for one record. Problems never fail the row:
// a record without a usable Total FTE or section name generates zero.
func (c *Calculator) Compute(rec section.Record, mode KeyMode) Section {
	out := Section{Record: rec}
	out.TotalFTE = TotalFTE(rec.ContactHours, rec.Headcount)

	prefix, validName := rec.Prefix()
	if !validName {
		return out
	}

	out.TierKey = prefix
	if mode == KeyByCourse && rec.CourseCode != "" {
		if m, ok := c.tiers.Lookup(rec.CourseCode); ok {
			out.TierKey = rec.CourseCode
			out.Multiplier = m
			out.TierMatched = true
		}
	}
	if !out.TierMatched {
		out.Multiplier, out.TierMatched = c.tiers.Lookup(prefix)
	}

	if out.TotalFTE.Valid {
		out.GeneratedFTE = Generated(out.TotalFTE.Value, out.Multiplier, c.support)
	}
	return out
}

// ComputeAll computes every record in order.
func (c *Calculator) ComputeAll(records []section.Record, mode KeyMode) ([]Section, Stats) {
	stats := Stats{Rows: len(records)}
	out := make([]Section, 0, len(records))
	for _, rec := range records {
		s := c.Compute(rec, mode)
		if _, ok := rec.Prefix(); !ok {
			stats.InvalidNames++
		} else if !s.TierMatched {
			stats.TierMisses++
		}
		if !s.TotalFTE.Valid {
			stats.MissingFTE++
		}
		out = append(out, s)
	}

	c.logger.Debug("computed section FTE",
		zap.String("op", "fte.ComputeAll"),
		zap.String("tierKey", mode.String()),
		zap.Int("rows", stats.Rows),
		zap.Int("missingFTE", stats.MissingFTE),
		zap.Int("tierMisses", stats.TierMisses),
		zap.Int("invalidNames", stats.InvalidNames),
	)
	return out, stats
}
