package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/impexp"
	"github.com/google/subcommands"
)

type exportCmd struct {
	format   string
	dataType string
	since    string
	output   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export records as CSV, JSON, SQL or a printable report" }
func (*exportCmd) Usage() string {
	return `mm export [-format csv|json|xlsx|sql|pdf] [-type all|transactions|accounts|categories|goals] [-range <range>] [-o <dir|file|->]

  Exports the selected records. Only transactions are filtered by the range:
  all, current-month, last-month, current-year or last-year.

  The file is named money-manager-export-<date>[-<type>].<ext> and written in
  the current directory, or in the directory given by -o. Any other -o value is
  the output file, and '-' writes to the standard output.

  The xlsx format is a spreadsheet friendly CSV, the pdf format is an HTML
  report that opens the print dialog.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(impexp.CSV), "Output format: csv, json, xlsx, sql or pdf.")
	f.StringVar(&c.dataType, "type", string(impexp.AllData), "Data to export: all, transactions, accounts, categories or goals.")
	f.StringVar(&c.since, "range", string(date.All), "Transactions date range: all, current-month, last-month, current-year or last-year.")
	f.StringVar(&c.output, "o", "", "Output directory, file, or '-' for the standard output.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := impexp.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	dataType, err := impexp.ParseDataType(c.dataType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	since, err := date.ParseSince(c.since)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withBook(ctx, func(b *mm.Book) error {
		file, err := impexp.Export(b.Dataset(), impexp.ExportOptions{
			Format:   format,
			DataType: dataType,
			Since:    since,
			Now:      time.Now(),
			Currency: Currency(),
		})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if c.output == "-" {
			_, err := stdout.Write(file.Content)
			return err
		}
		path := outputPath(c.output, file.Name)
		if err := os.WriteFile(path, file.Content, 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✅ Exported %s (%s, %d bytes)\n", path, file.MIMEType, len(file.Content))
		return nil
	})
}

// outputPath returns where to write the export named name.
func outputPath(output, name string) string {
	if output == "" {
		return name
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}
