package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arxivset/internal/source"
	"github.com/mesh-intelligence/arxivset/internal/sqlite"
	"github.com/mesh-intelligence/arxivset/pkg/criterion"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category vocabulary of the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(cmd)
			if err != nil {
				return err
			}
			cats := ds.Categories()
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), cats)
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

// queryFlags selects the criterion used by query.
type queryFlags struct {
	all    bool
	negate bool
	max    int
}

func newQueryCmd(a *app) *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "query <category>...",
		Short: "List rows matching categories",
		Long: "List rows carrying any of the given categories. --all requires every\n" +
			"category; --not inverts the match. Categories are lower-cased.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, qf, args)
		},
	}
	cmd.Flags().BoolVar(&qf.all, "all", false, "require every category")
	cmd.Flags().BoolVar(&qf.negate, "not", false, "invert the match")
	cmd.Flags().IntVar(&qf.max, "max", 0, "print at most this many rows (0: all)")
	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, qf queryFlags, args []string) error {
	ds, err := a.loadDataset(cmd)
	if err != nil {
		return err
	}

	b := criterion.Builder(criterion.Any)
	if qf.all {
		b = criterion.All
	}
	if qf.negate {
		b = criterion.Negate(b)
	}

	labels := make([]string, len(args))
	for i, arg := range args {
		labels[i] = strings.ToLower(arg)
	}
	view, err := ds.ByCategory(b, labels...)
	if err != nil {
		return err
	}

	end := view.Len()
	if qf.max > 0 && qf.max < end {
		end = qf.max
	}
	rows, err := view.Rows(0, end)
	if err != nil {
		return err
	}

	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	for _, r := range rows {
		writeRowLine(cmd.OutOrStdout(), r)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d rows\n", view.Len(), ds.Len())
	return nil
}

func newRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "row <id>...",
		Short: "Show rows by arXiv identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(cmd)
			if err != nil {
				return err
			}
			rows := make([]types.DecodedRow, 0, len(args))
			for _, id := range args {
				r, err := ds.RowByID(id)
				if err != nil {
					return err
				}
				rows = append(rows, r)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			for _, r := range rows {
				writeRowDetail(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeRowLine prints "id<TAB>categories<TAB>title".
func writeRowLine(w io.Writer, r types.DecodedRow) {
	fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, strings.Join(r.Categories, " "), columnText(r, "title"))
}

func writeRowDetail(w io.Writer, r types.DecodedRow) {
	fmt.Fprintf(w, "id:         %s\n", r.ID)
	fmt.Fprintf(w, "categories: %s\n", strings.Join(r.Categories, " "))
	for _, name := range []string{"title", "authors", "update_date", "abstract"} {
		if s := columnText(r, name); s != "" {
			fmt.Fprintf(w, "%-11s %s\n", name+":", s)
		}
	}
	fmt.Fprintln(w)
}

// columnText renders a column for terminal output. Parsed text prints its
// normalized form.
func columnText(r types.DecodedRow, name string) string {
	v, ok := r.Column(name)
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case *types.ParsedText:
		return x.String()
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}

func newSnapshotCmd(a *app) *cobra.Command {
	var table, column string
	cmd := &cobra.Command{
		Use:   "snapshot <out.db>",
		Short: "Copy the source into a SQLite snapshot",
		Long: "Copy every line of the configured source into a SQLite snapshot that\n" +
			"can later be read with --source sqlite:///path/out.db.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source.Open(cmd.Context(), a.cfg.Source, a.cfg.S3)
			if err != nil {
				return err
			}
			defer src.Close()

			n, err := sqlite.Write(cmd.Context(), args[0], table, column, src.Lines())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", sqlite.DefaultTable, "snapshot table name")
	cmd.Flags().StringVar(&column, "column", sqlite.DefaultColumn, "snapshot document column")
	return cmd
}
