package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/painel/internal/sheet"
)

func (a *app) newWorksheetsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "worksheets",
		Short: "List the tabs of the spreadsheet with their row counts",
		Example: `  # Check that the service account can see the spreadsheet
  painel worksheets

  # Same listing as served by /abas
  painel worksheets --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			meta, err := service.Spreadsheet(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return json.NewEncoder(out).Encode(meta)
			case "table":
				renderWorksheets(out, meta, a.cfg.Source.Worksheet)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table or json")
	return cmd
}

// renderWorksheets prints one line per tab and marks the configured one.
func renderWorksheets(w io.Writer, meta sheet.Spreadsheet, current string) {
	fmt.Fprintf(w, "Planilha: %s\n", meta.Title)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Indice", "Titulo", "Linhas", ""})
	for _, ws := range meta.Worksheets {
		marker := ""
		if ws.Title == current {
			marker = "*"
		}
		t.AppendRow(table.Row{ws.Index, ws.Title, ws.Rows, marker})
	}
	t.Render()
}

func (a *app) newSummaryCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute the dashboard once and print it as JSON",
		Example: `  painel summary --pretty
  SOURCE_KIND=file SOURCE_FILE=export.csv painel summary`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			summary, err := service.Summary(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(summary)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}
