package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/ccs-extract/internal/document"
	"github.com/zombor/ccs-extract/internal/history"
	"github.com/zombor/ccs-extract/internal/output"
	"github.com/zombor/ccs-extract/internal/rules"
	"github.com/zombor/ccs-extract/internal/statement"
)

// runsConfig holds the runs subcommand flags
type runsConfig struct {
	dbPath      string
	storagePath string
}

func newRunsCommand(root *rootConfig, parent *ff.FlagSet) *ff.Command {
	cfg := &runsConfig{}
	fs := ff.NewFlagSet("runs").SetParent(parent)
	fs.StringVar(&cfg.dbPath, 0, "db", "ccs-extract.db", "Database file path")
	fs.StringVar(&cfg.storagePath, 0, "storage", "./statements", "Storage directory path")

	exportFlags := ff.NewFlagSet("export").SetParent(fs)
	exportOutput := exportFlags.StringLong("output", "", "Output CSV path (default <id>.csv)")

	export := &ff.Command{
		Name:      "export",
		Usage:     "ccs-extract runs export [FLAGS] <ID>",
		ShortHelp: "Write the records of a stored run to CSV",
		Flags:     exportFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("export needs exactly one run ID")
			}
			return withService(cfg, func(service *history.Service) error {
				return exportRun(root, service, args[0], *exportOutput)
			})
		},
	}

	return &ff.Command{
		Name:        "runs",
		Usage:       "ccs-extract runs [FLAGS] [SUBCOMMAND]",
		ShortHelp:   "List statements processed by the server",
		Flags:       fs,
		Subcommands: []*ff.Command{export},
		Exec: func(ctx context.Context, args []string) error {
			return withService(cfg, func(service *history.Service) error {
				return listRuns(root, service)
			})
		},
	}
}

// withService opens the run database for the duration of fn
func withService(cfg *runsConfig, fn func(*history.Service) error) error {
	db, err := history.NewBoltDB(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	store, err := history.NewLocalStorage(cfg.storagePath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	service := history.NewService(db, &document.PlainText{}, statement.NewExtractor(rules.Default(), statement.Options{}), store)
	return fn(service)
}

// listRuns prints one line per stored run, newest first
func listRuns(root *rootConfig, service *history.Service) error {
	runs, err := service.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(root.stdout, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(root.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tPERIOD\tRECORDS\tSKIPPED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Source,
			formatPeriod(run.Period),
			run.Stats.RecordsEmitted,
			run.Stats.LinesSkipped,
		)
	}
	return tw.Flush()
}

func formatPeriod(p statement.Period) string {
	if p.IsZero() {
		return "-"
	}
	return p.Start.Format(output.DateLayout) + " - " + p.End.Format(output.DateLayout)
}

// exportRun writes the CSV of one stored run
func exportRun(root *rootConfig, service *history.Service, id, path string) error {
	data, err := service.RunCSV(id)
	if err != nil {
		return err
	}
	if path == "" {
		path = id + ".csv"
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	fmt.Fprintf(root.stdout, "Output written to: %s\n", path)
	return nil
}
