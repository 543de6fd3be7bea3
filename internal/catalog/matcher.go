// Package catalog resolves free-text product references to catalog products.
package catalog

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Status is the outcome of a Match call.
type Status int

const (
	Matched Status = iota
	Ambiguous
	Unmatched
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// Product is the subset of a catalog product used for matching.
type Product struct {
	ID       uuid.UUID
	Name     string
	SKU      string
	Keywords string // CSV like "para,pcm,fever"
}

// Result holds the matched product or the tied candidates.
type Result struct {
	Status     Status
	Product    *Product  // when Matched
	Candidates []Product // when Ambiguous
}

// Matcher scores products by the overlap between their name and keyword
// terms and the tokens of the input text.
type Matcher struct {
	products []Product
	names    []string
	skus     []string
	terms    []map[string]bool
}

// New pre-normalizes every product's name, SKU and keyword terms.
func New(products []Product) *Matcher {
	m := &Matcher{
		products: products,
		names:    make([]string, len(products)),
		skus:     make([]string, len(products)),
		terms:    make([]map[string]bool, len(products)),
	}

	for i, p := range products {
		m.names[i] = normalize(p.Name)
		m.skus[i] = normalize(p.SKU)

		terms := make(map[string]bool)
		for _, tok := range strings.Fields(m.names[i]) {
			terms[tok] = true
		}
		for _, part := range strings.Split(p.Keywords, ",") {
			for _, tok := range strings.Fields(normalize(part)) {
				terms[tok] = true
			}
		}
		m.terms[i] = terms
	}

	return m
}

// Match resolves text to a single product. An exact name or SKU match wins
// outright; otherwise the products sharing the most terms with the input are
// returned, as Matched when there is exactly one of them.
func (m *Matcher) Match(text string) Result {
	input := normalize(text)
	if input == "" {
		return Result{Status: Unmatched}
	}

	// Exact name / SKU
	var exact []Product
	for i, p := range m.products {
		if m.names[i] == input || (m.skus[i] != "" && m.skus[i] == input) {
			exact = append(exact, p)
		}
	}
	if len(exact) > 0 {
		return decide(exact)
	}

	// Term overlap
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(input) {
		tokens[tok] = true
	}

	best := 0
	var top []Product
	for i, p := range m.products {
		score := 0
		for term := range m.terms[i] {
			if tokens[term] {
				score++
			}
		}
		switch {
		case score == 0 || score < best:
		case score > best:
			best = score
			top = []Product{p}
		default:
			top = append(top, p)
		}
	}

	if len(top) == 0 {
		return Result{Status: Unmatched}
	}
	return decide(top)
}

func decide(products []Product) Result {
	if len(products) == 1 {
		return Result{Status: Matched, Product: &products[0]}
	}
	return Result{Status: Ambiguous, Candidates: products}
}

// normalize lowercases s and collapses every run of non-alphanumerics to a single space.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}
