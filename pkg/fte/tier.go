package fte

import (
	"strings"

	"github.com/iwvelando/fte-report/pkg/section"
)

// TierEntry is one row of the funding tier table: a subject prefix or full
// course code and its "New Sector" multiplier.
type TierEntry struct {
	Key        string
	Multiplier section.Number
}

// TierTable resolves funding multipliers. It is read-only once built.
type TierTable struct {
	multipliers map[string]float64
}

// NewTierTable indexes tier rows by key. Blank keys are skipped, a later
// row for the same key replaces an earlier one and an unparseable
// multiplier counts as zero.
func NewTierTable(entries []TierEntry) *TierTable {
	t := &TierTable{multipliers: make(map[string]float64, len(entries))}
	for _, entry := range entries {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			continue
		}
		t.multipliers[key] = entry.Multiplier.Or(0)
	}
	return t
}

// Lookup returns the multiplier stored for key. Keys are case-sensitive.
func (t *TierTable) Lookup(key string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	m, ok := t.multipliers[key]
	return m, ok
}

// Multiplier is Lookup with misses resolved to zero.
func (t *TierTable) Multiplier(key string) float64 {
	m, _ := t.Lookup(key)
	return m
}

// Len is the number of keys in the table.
func (t *TierTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.multipliers)
}
