package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upsert items from a CSV file",
		Long: "Reads a CSV file with a header row and upserts every row by serial_no.\n" +
			"Rows with an invalid price are skipped; a missing required header fails the whole import.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			if timeout <= 0 {
				timeout = a.cfg.Upload.Timeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			res, err := a.service.ImportCSV(ctx, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), `=== Import Report ===
Import ID:  %s
Rows:       %d
Imported:   %d
Skipped:    %d
Size:       %d bytes
Total time: %s
=====================
`, res.ID, res.Total, res.Imported, res.Skipped, res.Bytes, res.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the import after this long (default UPLOAD_TIMEOUT)")
	return cmd
}

// createOutput opens the export destination. Tests replace it.
var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func newExportCmd(a *app) *cobra.Command {
	var (
		query  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write items as CSV",
		Long: "Without --query every item is exported in catalog order.\n" +
			"With --query only items with a field starting with the keyword are exported; '*' matches all.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, cerr := createOutput(output)
				if cerr != nil {
					return fmt.Errorf("create output: %w", cerr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close output: %w", cerr)
					}
				}()
				w = f
			}

			n, err := a.service.Export(cmd.Context(), w, query)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d items\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "keyword to match")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		page   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Search items by keyword prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.Search(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SERIAL NO\tLABEL\tTYPE\tBRAND\tLOCATION\tSTATUS")
			for _, r := range res.Records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.SerialNo.String, r.Label.String, r.Type.String,
					r.Brand.String, r.Location.String, r.Status.String)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "page %d of %d, %d total\n", res.Page, res.TotalPages, res.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "schema",
		Short:       "List inventory fields in CSV column order",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tKIND\tREQUIRED\tSEARCH")
			for _, f := range core.Fields {
				search := ""
				switch {
				case f.Ranged():
					search = f.MinParam + ", " + f.MaxParam
				case f.Prefix:
					search = "prefix"
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.Name, f.Kind, f.Required, search)
			}
			return tw.Flush()
		},
	}
}
