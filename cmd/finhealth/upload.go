package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type uploadCmd struct {
	business int64
	commit   bool
}

func (*uploadCmd) Name() string     { return "upload" }
func (*uploadCmd) Synopsis() string { return "preview and optionally commit a transactions file" }
func (*uploadCmd) Usage() string {
	return `finhealth upload [-business <id>] [-commit] <file>

  Uploads the file for a server-side preview. PDF files (by extension,
  case-insensitive) go to the PDF pipeline; everything else to the tabular
  one. With -commit, the previewed content is then ingested; the commit is
  refused if the file changed on disk since the preview.
`
}

func (c *uploadCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.business, "business", 0, "Business id (default: the selected business).")
	f.BoolVar(&c.commit, "commit", false, "Ingest after a successful preview.")
}

func (c *uploadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("upload expects exactly one file argument")
	}
	a, err := newApp()
	if err != nil {
		return usageError("%v", err)
	}
	defer a.close(ctx)

	if err := a.restore(ctx); err != nil {
		return a.fail(err)
	}
	if err := a.selectBusiness(ctx, c.business); err != nil {
		return a.fail(err)
	}

	a.ingest.SelectFile(f.Arg(0))
	preview, err := a.ingest.RunPreview(ctx)
	if err != nil {
		return a.fail(err)
	}

	fmt.Printf("Detected %d rows.", preview.Detected.Rows)
	if preview.Detected.Message != "" {
		fmt.Printf(" %s", preview.Detected.Message)
	}
	fmt.Println()
	printPreview(preview.Columns, preview.Preview)

	if !c.commit {
		fmt.Println("\nPreview only; re-run with -commit to ingest.")
		return subcommands.ExitSuccess
	}

	result, err := a.ingest.RunCommit(ctx)
	if err != nil {
		return a.fail(err)
	}
	fmt.Printf("\nIngested %d rows.\n", result.Inserted)
	return subcommands.ExitSuccess
}

// printPreview renders the bounded sample rows under their column headers.
func printPreview(columns []string, rows []map[string]any) {
	if len(columns) == 0 || len(rows) == 0 {
		return
	}
	w := newTabWriter()
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			if v, ok := row[col]; ok && v != nil {
				fmt.Fprintf(w, "%v", v)
			} else {
				fmt.Fprint(w, "-")
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
