package sim

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// monthAbbrev is the fixed label table, January first.
var monthAbbrev = [12]string{"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic"}

// Period is one calendar month of the planning horizon.
type Period struct {
	Year  int
	Month int // 1..12
}

// NewPeriod returns the period for year/month. Month must be in 1..12.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be in 1..12, got %d", month)
	}
	return Period{Year: year, Month: month}, nil
}

// Key returns the canonical sortable key, e.g. "2025-09".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) String() string { return p.Key() }

// Label returns the display label, e.g. "Set-25".
func (p Period) Label() string {
	if p.Month < 1 || p.Month > 12 {
		return p.Key()
	}
	return fmt.Sprintf("%s-%02d", monthAbbrev[p.Month-1], ((p.Year%100)+100)%100)
}

// Add returns the period n months later (earlier for negative n).
func (p Period) Add(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	return Period{Year: floorDiv(idx, 12), Month: idx - floorDiv(idx, 12)*12 + 1}
}

// Next returns the successor period.
func (p Period) Next() Period { return p.Add(1) }

// Before reports whether p precedes q.
func (p Period) Before(q Period) bool { return Compare(p, q) < 0 }

// After reports whether p follows q.
func (p Period) After(q Period) bool { return Compare(p, q) > 0 }

// IsZero reports whether p is the zero Period (no month set).
func (p Period) IsZero() bool { return p == (Period{}) }

// MarshalText encodes the period as its canonical key.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.Key()), nil
}

// UnmarshalText accepts either the canonical key or a display label.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriodOrLabel(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Compare orders periods chronologically. For four-digit years this is the
// same order as comparing Key() strings.
func Compare(a, b Period) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Month, b.Month)
}

// PeriodRange returns every period from start to end inclusive, in order.
// It returns an empty slice when end precedes start.
func PeriodRange(start, end Period) []Period {
	if end.Before(start) {
		return []Period{}
	}
	out := make([]Period, 0, MonthsBetween(start, end)+1)
	for p := start; !p.After(end); p = p.Next() {
		out = append(out, p)
	}
	return out
}

// MonthsBetween returns the signed number of months from a to b.
func MonthsBetween(a, b Period) int {
	return (b.Year*12 + b.Month) - (a.Year*12 + a.Month)
}

// ParsePeriod parses a canonical "YYYY-MM" key.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	year, month, ok := strings.Cut(s, "-")
	if !ok || len(year) != 4 || len(month) != 2 {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	p, err := NewPeriod(y, m)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return p, nil
}

// ParseLabel parses a display label such as "Set-25". Two-digit years are
// taken to be in the 2000s.
func ParseLabel(s string) (Period, error) {
	s = strings.TrimSpace(s)
	abbrev, yy, ok := strings.Cut(s, "-")
	if !ok || len(yy) != 2 {
		return Period{}, fmt.Errorf("invalid label %q: expected Mmm-YY", s)
	}
	month := slices.Index(monthAbbrev[:], abbrev) + 1
	if month == 0 {
		return Period{}, fmt.Errorf("invalid label %q: unknown month %q", s, abbrev)
	}
	y, err := strconv.Atoi(yy)
	if err != nil || y < 0 {
		return Period{}, fmt.Errorf("invalid label %q: bad year %q", s, yy)
	}
	return Period{Year: 2000 + y, Month: month}, nil
}

// ParsePeriodOrLabel accepts either "YYYY-MM" or "Mmm-YY".
func ParsePeriodOrLabel(s string) (Period, error) {
	if p, err := ParsePeriod(s); err == nil {
		return p, nil
	}
	if p, err := ParseLabel(s); err == nil {
		return p, nil
	}
	return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM or Mmm-YY", strings.TrimSpace(s))
}

// PeriodSet is an unordered set of periods.
type PeriodSet map[Period]struct{}

// NewPeriodSet returns a set holding ps.
func NewPeriodSet(ps ...Period) PeriodSet {
	s := make(PeriodSet, len(ps))
	for _, p := range ps {
		s.Add(p)
	}
	return s
}

// Add inserts p.
func (s PeriodSet) Add(p Period) { s[p] = struct{}{} }

// Contains reports whether p is in the set. Safe on a nil set.
func (s PeriodSet) Contains(p Period) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in chronological order.
func (s PeriodSet) Sorted() []Period {
	out := make([]Period, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, Compare)
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
