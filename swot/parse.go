package swot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Widget id suffixes for the four categories
const (
	suffixStrengths   = "_ls"
	suffixWeakness    = "_lw"
	suffixOpportunity = "_lo"
	suffixThreat      = "_lt"
)

var countPattern = regexp.MustCompile(`\((\d+)\)`)

// Selectors locate the SWOT widget and the essentials box on the page
type Selectors struct {
	// Marker is the id prefix of the SWOT widget, e.g. "swot" for #swot_ls
	Marker string
	// Essentials selects the element holding the essentials text
	Essentials string
}

// DefaultSelectors returns the selectors used by moneycontrol quote pages
func DefaultSelectors() Selectors {
	return Selectors{
		Marker:     "swot",
		Essentials: ".esbx",
	}
}

// Category returns the selector of the emphasized text of one SWOT category
func (s Selectors) Category(suffix string) string {
	return "#" + s.Marker + suffix + " strong"
}

// MarkerSelector is the element whose presence means the widget has rendered
func (s Selectors) MarkerSelector() string {
	return s.Category(suffixStrengths)
}

// Parse reads the SWOT counts and the essentials text from a rendered document.
// It never fails: absent categories are missing and an absent essentials box is "N/A".
func Parse(doc *goquery.Document, name string, sel Selectors) Result {
	return Result{
		Name:        name,
		Strengths:   parseCount(doc, sel.Category(suffixStrengths)),
		Weakness:    parseCount(doc, sel.Category(suffixWeakness)),
		Opportunity: parseCount(doc, sel.Category(suffixOpportunity)),
		Threat:      parseCount(doc, sel.Category(suffixThreat)),
		Essentials:  parseEssentials(doc, sel.Essentials),
		Status:      StatusOK,
	}
}

// parseCount reads the first "(n)" in the category text. A number too large
// for an int is reported as missing, the same as no number at all.
func parseCount(doc *goquery.Document, selector string) Count {
	s := doc.Find(selector).First()
	if s.Length() == 0 {
		return Missing()
	}

	match := countPattern.FindStringSubmatch(s.Text())
	if len(match) < 2 {
		return Missing()
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return Missing()
	}
	return Of(n)
}

func parseEssentials(doc *goquery.Document, selector string) string {
	s := doc.Find(selector).First()
	if s.Length() == 0 {
		return NotAvailable
	}
	// script and style bodies are not part of the rendered text
	s = s.Clone()
	s.Find("script, style, noscript, template").Remove()
	return cleanText(s.Text())
}

// cleanText collapses every whitespace run, line breaks included, to one space
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")

	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}

	return strings.TrimSpace(text)
}
