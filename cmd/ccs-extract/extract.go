package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/ff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/ccs-extract/internal/classify"
	"github.com/zombor/ccs-extract/internal/document"
	"github.com/zombor/ccs-extract/internal/output"
	"github.com/zombor/ccs-extract/internal/rules"
	"github.com/zombor/ccs-extract/internal/statement"
)

// extractConfig holds the extract subcommand flags
type extractConfig struct {
	output      string
	rulesPath   string
	initRules   string
	engine      string
	jobs        int
	joinWrapped bool
	classifier  classifierConfig
}

func newExtractCommand(root *rootConfig, parent *ff.FlagSet, stdin io.Reader) *ff.Command {
	cfg := &extractConfig{}
	fs := ff.NewFlagSet("extract").SetParent(parent)
	fs.StringVar(&cfg.output, 'o', "output", "", "Output CSV path (single input only; default <input>.csv)")
	fs.StringVar(&cfg.rulesPath, 0, "rules", "", "Rule file (.yaml, .toml or .json); built-in rules when empty")
	fs.StringVar(&cfg.initRules, 0, "init-rules", "", "Write an example rule file to this path and exit")
	fs.StringVar(&cfg.engine, 0, "engine", string(document.EngineFitz), "PDF text engine: fitz or pdf")
	fs.IntVar(&cfg.jobs, 'j', "jobs", 4, "Statements processed at the same time")
	fs.BoolVar(&cfg.joinWrapped, 0, "join-wrapped", "Join descriptions that wrap onto the next line")
	cfg.classifier.register(fs)

	return &ff.Command{
		Name:      "extract",
		Usage:     "ccs-extract extract [FLAGS] [STATEMENT ...]",
		ShortHelp: "Extract transactions from statements into CSV files",
		LongHelp:  "With no statements given, the path is read from standard input.",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			return runExtract(ctx, root, cfg, args, stdin)
		},
	}
}

// runExtract processes each input statement into its own CSV file
func runExtract(ctx context.Context, root *rootConfig, cfg *extractConfig, args []string, stdin io.Reader) error {
	if cfg.initRules != "" {
		return writeRuleTemplate(root.stdout, cfg.initRules)
	}

	inputs := args
	if len(inputs) == 0 {
		path, err := promptForPath(stdin, root.stdout)
		if err != nil {
			return err
		}
		inputs = []string{path}
	}
	if cfg.output != "" && len(inputs) > 1 {
		return errors.New("--output can only be used with a single statement")
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}

	ruleSet, err := rules.Load(cfg.rulesPath)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	classifier, err := cfg.classifier.build()
	if err != nil {
		return err
	}
	if classifier != nil {
		defer classifier.Close()
	}

	extractor := statement.NewExtractor(ruleSet, statement.Options{JoinWrapped: cfg.joinWrapped})

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)
	for _, input := range inputs {
		g.Go(func() error {
			outPath := cfg.output
			if outPath == "" {
				outPath = output.DefaultPath(input)
			}

			result, err := extractFile(ctx, extractor, classifier, document.Engine(cfg.engine), input, outPath, root.debug)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(inputs) > 1 {
				fmt.Fprintf(root.stdout, "%s: ", input)
			}
			output.Summary(root.stdout, outPath, result)
			return nil
		})
	}
	return g.Wait()
}

// extractFile runs one statement through extraction and writes its outputs
func extractFile(ctx context.Context, extractor *statement.Extractor, classifier classify.Classifier, engine document.Engine, input, outPath string, debug bool) (*statement.Result, error) {
	start := time.Now()

	documents, err := document.ForPath(input, engine)
	if err != nil {
		return nil, err
	}

	text, err := documents.Extract(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	result := extractor.Extract(text)

	if classifier != nil {
		refined := classify.Refine(ctx, classifier, result.Records, extractor.Rules().CategoryNames())
		slog.Info("Refined categories", "file", input, "records", refined)
	}

	if err := output.WriteFile(outPath, result.Records); err != nil {
		return nil, err
	}

	if debug {
		debugPath := output.DebugPath(input)
		if err := output.WriteDebugFile(debugPath, text, result); err != nil {
			return nil, err
		}
		slog.Debug("Wrote debug dump", "file", debugPath)
	}

	slog.Info("Extracted transactions",
		"file", input,
		"output", outPath,
		"records", result.Stats.RecordsEmitted,
		"elapsed", time.Since(start),
	)
	return result, nil
}

// promptForPath asks for a statement path on the terminal
func promptForPath(stdin io.Reader, stdout io.Writer) (string, error) {
	fmt.Fprint(stdout, "Enter the path to the statement: ")
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading statement path: %w", err)
		}
		return "", errors.New("no statement given")
	}

	path := strings.Trim(strings.TrimSpace(scanner.Text()), `"'`)
	if path == "" {
		return "", errors.New("no statement given")
	}
	return path, nil
}

// writeRuleTemplate writes the example rule file without replacing an existing one
func writeRuleTemplate(stdout io.Writer, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating rule file: %w", err)
	}
	if _, err := f.Write(rules.Template()); err != nil {
		f.Close()
		return fmt.Errorf("writing rule file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing rule file: %w", err)
	}
	fmt.Fprintf(stdout, "Rule template written to: %s\n", path)
	return nil
}
