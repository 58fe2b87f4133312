package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/gdp-etl/models"
)

// TableSelector locates the table body holding the data rows.
type TableSelector interface {
	SelectBody(doc *goquery.Document) (*goquery.Selection, error)
	String() string
}

// BodyIndex selects the n-th (zero-based) tbody in document order. This ties
// extraction to the exact page layout: if the source page gains or loses a
// table above the target, the index must change.
type BodyIndex int

func (i BodyIndex) SelectBody(doc *goquery.Document) (*goquery.Selection, error) {
	bodies := doc.Find("tbody")
	if int(i) < 0 || bodies.Length() <= int(i) {
		return nil, fmt.Errorf("%w: found %d tbody elements, need at least %d", models.ErrStructure, bodies.Length(), int(i)+1)
	}
	return bodies.Eq(int(i)), nil
}

func (i BodyIndex) String() string {
	return fmt.Sprintf("tbody[%d]", int(i))
}

// CSSSelector selects the first element matching a CSS expression, e.g.
// "table.wikitable > tbody".
type CSSSelector string

func (s CSSSelector) SelectBody(doc *goquery.Document) (*goquery.Selection, error) {
	sel := doc.Find(string(s)).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: no element matches %q", models.ErrStructure, string(s))
	}
	return sel, nil
}

func (s CSSSelector) String() string {
	return string(s)
}

// SelectorFromConfig prefers the CSS expression when one is configured.
func SelectorFromConfig(cfg models.TableConfig) TableSelector {
	if cfg.CSS != "" {
		return CSSSelector(cfg.CSS)
	}
	return BodyIndex(cfg.BodyIndex)
}
