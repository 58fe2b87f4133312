package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/gdp-etl/models"
)

// NoDataPlaceholder marks a GDP cell without a figure.
const NoDataPlaceholder = "—"

// Parser turns the GDP page into raw country rows.
type Parser struct {
	Selector TableSelector
}

func NewParser(selector TableSelector) *Parser {
	if selector == nil {
		selector = BodyIndex(models.DefaultBodyIndex)
	}
	return &Parser{Selector: selector}
}

// Extract parses markup and returns one RawCountry per admitted row of the
// selected table body, in source order.
//
// A row is admitted when it has data cells, its first cell holds a link and its
// third cell is not the no-data placeholder. Header and separator rows have no
// td cells; footnote and aggregate rows have no link.
func (p *Parser) Extract(markup []byte) ([]models.RawCountry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %w", models.ErrStructure, err)
	}

	body, err := p.Selector.SelectBody(doc)
	if err != nil {
		return nil, err
	}

	rows := body.ChildrenFiltered("tr")
	records := make([]models.RawCountry, 0, rows.Length())

	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		var rec models.RawCountry
		var ok bool
		rec, ok, err = extractRow(i, tr)
		if err != nil {
			return false
		}
		if ok {
			records = append(records, rec)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func extractRow(i int, tr *goquery.Selection) (models.RawCountry, bool, error) {
	cells := tr.ChildrenFiltered("td")
	if cells.Length() == 0 {
		return models.RawCountry{}, false, nil
	}

	anchor := cells.Eq(0).Find("a").First()
	if anchor.Length() == 0 {
		return models.RawCountry{}, false, nil
	}

	if cells.Length() < 3 {
		return models.RawCountry{}, false, fmt.Errorf("%w: row %d has %d data cells, need at least 3", models.ErrStructure, i, cells.Length())
	}

	gdpCell := cells.Eq(2)
	if isPlaceholder(gdpCell) {
		return models.RawCountry{}, false, nil
	}

	country := normalizeText(anchor.Text())
	if country == "" {
		return models.RawCountry{}, false, fmt.Errorf("%w: row %d has an empty country link", models.ErrStructure, i)
	}

	return models.RawCountry{
		Country:     country,
		GDPMillions: leadingText(gdpCell),
	}, true, nil
}

// leadingText returns the first child node's text. GDP cells may carry
// footnote markers after the figure.
func leadingText(cell *goquery.Selection) string {
	first := cell.Contents().First()
	if first.Length() == 0 {
		return ""
	}
	return normalizeText(first.Text())
}

func isPlaceholder(cell *goquery.Selection) bool {
	return leadingText(cell) == NoDataPlaceholder || normalizeText(cell.Text()) == NoDataPlaceholder
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
