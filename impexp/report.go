package impexp

import (
	"bytes"
	"fmt"
	"html/template"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/renderer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ReportTransactions is the maximum number of transactions listed in the report.
const ReportTransactions = 50

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 2em; color: #222; }
  h1 { border-bottom: 2px solid #333; padding-bottom: .3em; }
  h2 { margin-top: 1.5em; color: #333; }
  table { border-collapse: collapse; width: 100%; margin: 1em 0; font-size: 0.9em; }
  th, td { border: 1px solid #ccc; padding: 6px 8px; }
  th { background: #f2f2f2; }
  tr:nth-child(even) td { background: #fafafa; }
  @media print { body { margin: 0; } h2 { page-break-after: avoid; } table { page-break-inside: auto; } }
</style>
</head>
<body>
{{.Body}}
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// writeReport writes the self printing HTML report.
func writeReport(s, all *mm.Dataset, opts ExportOptions) ([]byte, error) {
	today := date.Of(opts.Now)
	// the summary covers every account and goal, and the transactions of the range
	overview := Select(all, AllData, opts.Since, today)
	r := &renderer.Report{
		Title:     "Money Manager Report",
		Generated: today,
		Summary:   renderer.NewSummary(mm.NewSummary(overview, today, opts.Currency)),
	}
	if opts.Since != date.All {
		r.Range = fmt.Sprintf("since %s", opts.Since.Start(today))
	}
	if opts.DataType.includes(TransactionsData) {
		r.Transactions = renderer.NewTransactions("Transactions", s.Transactions, all, opts.Currency, ReportTransactions)
	}
	if opts.DataType.includes(AccountsData) {
		r.Accounts = renderer.NewAccounts(s, opts.Currency)
	}
	if opts.DataType.includes(GoalsData) {
		r.Goals = renderer.NewGoals(s, today, opts.Currency)
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(renderer.RenderReport(r)), &body); err != nil {
		return nil, fmt.Errorf("cannot convert report to HTML: %w", err)
	}
	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{r.Title, template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("cannot write HTML report: %w", err)
	}
	return out.Bytes(), nil
}
