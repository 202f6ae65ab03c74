// Package renderer turns money manager reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell": Cell,
}

// cellEscaper backslash escapes the punctuation that markdown reads as
// emphasis, links, code, raw HTML, entities or table separators.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "~", `\~`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "&", `\&`, "|", `\|`,
	"\r\n", " ", "\n", " ", "\r", " ",
)

// Cell escapes a value for use in a markdown table cell.
func Cell(v any) string { return cellEscaper.Replace(fmt.Sprint(v)) }

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name results in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// RenderSummary renders the summary of a book.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_totals": "summary_totals.md",
		"summary_goals":  "summary_goals.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderAccounts renders the list of accounts.
func RenderAccounts(v *Accounts) string {
	return renderTemplate("accounts", "accounts.md", nil, v)
}

// RenderTransactions renders a list of transactions.
func RenderTransactions(v *Transactions) string {
	return renderTemplate("transactions", "transactions.md", nil, v)
}

// RenderGoals renders the savings goals.
func RenderGoals(v *Goals) string {
	return renderTemplate("goals", "goals.md", nil, v)
}

// RenderCategories renders the categories with their spending against budget.
func RenderCategories(v *Categories) string {
	return renderTemplate("categories", "categories.md", nil, v)
}

// RenderReport renders the printable export report.
//
// Sections whose view is nil are left out.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"summary_totals": "summary_totals.md",
		"transactions":   "",
		"accounts":       "",
		"goals":          "",
	}
	if r.Transactions != nil {
		partials["transactions"] = "report_transactions.md"
	}
	if r.Accounts != nil {
		partials["accounts"] = "report_accounts.md"
	}
	if r.Goals != nil {
		partials["goals"] = "report_goals.md"
	}
	return renderTemplate("report", "report.md", partials, r)
}
