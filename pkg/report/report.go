// Package report prints query results for the operator.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Write prints the query text followed by its result set as a table.
func Write(w io.Writer, query string, countries []models.Country) error {
	if _, err := fmt.Fprintln(w, query); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", models.ColumnCountry, models.ColumnGDPBillions})
	for i, c := range countries {
		t.AppendRow(table.Row{i, c.Country, strconv.FormatFloat(c.GDPBillions, 'f', 2, 64)})
	}
	t.AppendFooter(table.Row{"", "Rows", len(countries)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	return nil
}
