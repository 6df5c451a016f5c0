// Package report prints the result list of a run to the operator console
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"swotscraper/swot"
)

var header = []string{"#", "Name", "Strengths", "Weakness", "Opportunity", "Threat", "MC Essentials", "Status"}

// Write renders results as a markdown table, one row per target in run order
func Write(w io.Writer, results []swot.Result) error {
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Name,
			display(r.Strengths),
			display(r.Weakness),
			display(r.Opportunity),
			display(r.Threat),
			r.Essentials,
			string(r.Status),
		})
	}

	md := markdown.NewMarkdown(w)
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText(fmt.Sprintf("%d targets, %d failed", len(results), failures(results)))
	return md.Build()
}

func display(c swot.Count) string {
	if c.IsMissing() {
		return "null"
	}
	return c.String()
}

func failures(results []swot.Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
