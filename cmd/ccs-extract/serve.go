package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/ccs-extract/internal/document"
	"github.com/zombor/ccs-extract/internal/history"
	"github.com/zombor/ccs-extract/internal/rules"
	"github.com/zombor/ccs-extract/internal/statement"
)

// serveConfig holds the serve subcommand flags
type serveConfig struct {
	port        int
	dbPath      string
	storagePath string
	authUser    string
	authPass    string
	rulesPath   string
	engine      string
	joinWrapped bool
	classifier  classifierConfig
}

func newServeCommand(root *rootConfig, parent *ff.FlagSet) *ff.Command {
	cfg := &serveConfig{}
	fs := ff.NewFlagSet("serve").SetParent(parent)
	fs.IntVar(&cfg.port, 0, "port", 8080, "HTTP server port")
	fs.StringVar(&cfg.dbPath, 0, "db", "ccs-extract.db", "Database file path")
	fs.StringVar(&cfg.storagePath, 0, "storage", "./statements", "Storage directory path")
	fs.StringVar(&cfg.authUser, 0, "auth-user", "", "Basic auth username (optional)")
	fs.StringVar(&cfg.authPass, 0, "auth-pass", "", "Basic auth password (optional)")
	fs.StringVar(&cfg.rulesPath, 0, "rules", "", "Rule file (.yaml, .toml or .json); built-in rules when empty")
	fs.StringVar(&cfg.engine, 0, "engine", string(document.EngineFitz), "PDF text engine: fitz or pdf")
	fs.BoolVar(&cfg.joinWrapped, 0, "join-wrapped", "Join descriptions that wrap onto the next line")
	cfg.classifier.register(fs)

	return &ff.Command{
		Name:      "serve",
		Usage:     "ccs-extract serve [FLAGS]",
		ShortHelp: "Serve the statement upload API",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *serveConfig) error {
	ruleSet, err := rules.Load(cfg.rulesPath)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	documents, err := document.NewRouter(document.Engine(cfg.engine))
	if err != nil {
		return err
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := history.NewBoltDB(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := history.NewLocalStorage(cfg.storagePath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	extractor := statement.NewExtractor(ruleSet, statement.Options{JoinWrapped: cfg.joinWrapped})
	service := history.NewService(db, documents, extractor, store)

	classifier, err := cfg.classifier.build()
	if err != nil {
		return err
	}
	if classifier != nil {
		defer classifier.Close()
		service.SetClassifier(classifier)
	}

	basicAuth := history.BasicAuth{
		Username: cfg.authUser,
		Password: cfg.authPass,
	}
	server := history.NewServer(service, basicAuth)

	if cfg.authUser != "" || cfg.authPass != "" {
		slog.Info("Basic auth enabled", "user", cfg.authUser)
	}

	addr := fmt.Sprintf(":%d", cfg.port)
	if err := server.Start(ctx, addr); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
