// Package refdata provides in-memory lookups over the carrier reference
// data. The lookup is built once at startup from the transporters table
// and handed to whoever needs name resolution; there is no package-level
// state.
package refdata

import (
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"fretenota/internal/domain"
)

// TransporterLookup resolves free-form carrier names (as they appear on
// invoice text) to canonical transporter entries. Immutable after
// construction and safe for concurrent use.
type TransporterLookup struct {
	byNorm map[string]*domain.Transporter
	fuzzy  *closestmatch.ClosestMatch
	norms  map[string]*domain.Transporter // fuzzy candidate -> entry
}

// NewTransporterLookup builds a lookup from the loaded reference entries.
// Inactive entries are skipped.
func NewTransporterLookup(entries []domain.Transporter) *TransporterLookup {
	l := &TransporterLookup{
		byNorm: make(map[string]*domain.Transporter, len(entries)),
		norms:  make(map[string]*domain.Transporter, len(entries)),
	}

	var candidates []string
	for i := range entries {
		e := &entries[i]
		if !e.IsActive {
			continue
		}
		n := Normalize(e.Name)
		l.byNorm[n] = e
		l.norms[n] = e
		candidates = append(candidates, n)
	}
	l.fuzzy = closestmatch.New(candidates, []int{2, 3, 4})
	return l
}

// Resolve returns the canonical transporter for a free-form name: exact
// match after normalization first, then a fuzzy closest-match fallback.
// Returns nil when nothing matches.
func (l *TransporterLookup) Resolve(name string) *domain.Transporter {
	n := Normalize(name)
	if n == "" {
		return nil
	}
	if e, ok := l.byNorm[n]; ok {
		return e
	}
	if best := l.fuzzy.Closest(n); best != "" {
		return l.norms[best]
	}
	return nil
}

// ResolveByCNPJ returns the transporter whose CNPJ digits match, ignoring
// punctuation. Returns nil when unknown.
func (l *TransporterLookup) ResolveByCNPJ(cnpj string) *domain.Transporter {
	want := digitsOnly(cnpj)
	if want == "" {
		return nil
	}
	for _, e := range l.byNorm {
		if digitsOnly(e.CNPJ) == want {
			return e
		}
	}
	return nil
}

// Len returns the number of active entries loaded.
func (l *TransporterLookup) Len() int {
	return len(l.byNorm)
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips accents, and collapses whitespace so that
// "Transportes São João  LTDA" and "TRANSPORTES SAO JOAO LTDA" compare equal.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
