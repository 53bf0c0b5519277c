// Package cmd wires the fsearch command-line interface on top of the
// search engine.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cumulus13/fsearch/internal/config"
	"github.com/cumulus13/fsearch/internal/display"
	"github.com/cumulus13/fsearch/internal/export"
	"github.com/cumulus13/fsearch/internal/history"
	"github.com/cumulus13/fsearch/internal/logger"
	"github.com/cumulus13/fsearch/internal/search"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	flagPath          string
	flagDepth         int
	flagMethod        string
	flagCaseSensitive bool
	flagNoDir         bool
	flagContent       bool
	flagInclude       string
	flagExport        string
	flagOutput        string
	flagMaxLineLen    int
	flagVerbose       bool
	flagDebug         bool
	flagNoHistory     bool
	flagConfig        string
)

// NewRootCommand creates and returns the root cobra command for fsearch.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fsearch PATTERN",
		Short: "Fast file and content search utility",
		Long: `fsearch locates files by name or by content within a directory tree.

Name patterns support * and ? wildcards; patterns without wildcards
match by substring. With --file the pattern is searched inside files,
line by line, skipping binaries.`,
		Version:      Version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runSearch,
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	cmd.Flags().StringVarP(&flagPath, "path", "p", cwd, "search directory")
	cmd.Flags().IntVarP(&flagDepth, "deep", "d", 1, "maximum search depth (0 = base directory only)")
	cmd.Flags().StringVarP(&flagMethod, "method", "m", "scan", "search method: scan or glob")
	cmd.Flags().BoolVarP(&flagCaseSensitive, "case-sensitive", "C", false, "match case exactly")
	cmd.Flags().BoolVarP(&flagNoDir, "no-dir", "D", false, "exclude directories from results (files only)")
	cmd.Flags().BoolVarP(&flagContent, "file", "f", false, "search for text inside files")
	cmd.Flags().StringVarP(&flagInclude, "include", "i", "", `only include files matching patterns (e.g. "*.py,*.txt")`)
	cmd.Flags().StringVarP(&flagExport, "export", "e", "", "export results: text, csv, html")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "export output file (empty for stdout)")
	cmd.Flags().IntVar(&flagMaxLineLen, "max-line-length", 0, "truncate content lines longer than this (default 10000)")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print search diagnostics")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "do not record this run in the search history")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.fsearch/config.yaml)")

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadConfig reads the config file and layers changed flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("method") {
		cfg.Method = flagMethod
	}
	if cmd.Flags().Changed("deep") {
		cfg.MaxDepth = flagDepth
	}
	if cmd.Flags().Changed("case-sensitive") {
		cfg.CaseSensitive = flagCaseSensitive
	}
	if cmd.Flags().Changed("include") {
		cfg.Include = flagInclude
	}
	if cmd.Flags().Changed("max-line-length") {
		cfg.MaxLineLength = flagMaxLineLen
	}
	if cmd.Flags().Changed("no-history") && flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, cfg.LogLevel)

	method, err := search.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}

	req := search.Request{
		Pattern:         args[0],
		BasePath:        flagPath,
		MaxDepth:        cfg.MaxDepth,
		CaseSensitive:   cfg.CaseSensitive,
		IncludePatterns: search.ParseIncludePatterns(cfg.Include),
		FilesOnly:       flagNoDir,
		ContentMode:     flagContent,
		Method:          method,
		MaxLineLength:   cfg.MaxLineLength,
	}

	engine, err := search.NewEngine(req)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Debugf("searching %s for %q (method=%s depth=%d content=%v)",
		req.BasePath, req.Pattern, method, req.MaxDepth, req.ContentMode)

	started := time.Now()
	results, diag, err := engine.Collect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "\nSearch interrupted")
			return err
		}
		return err
	}

	renderer := display.NewRenderer(cmd.OutOrStdout())
	renderer.Results(results)
	if flagVerbose {
		renderer.Diagnostics(diag)
	}

	if flagExport != "" {
		if err := exportResults(cmd.OutOrStdout(), results, req, started); err != nil {
			return err
		}
	}

	if cfg.History {
		recordRun(ctx, cfg, log, req, diag, started)
	}
	return nil
}

// exportResults renders the result set and writes it to the output file,
// or to w when no output path was given.
func exportResults(w io.Writer, results []search.Result, req search.Request, started time.Time) error {
	format, err := export.ParseFormat(flagExport)
	if err != nil {
		return err
	}
	data, err := export.Render(results, export.Meta{
		Pattern:     req.Pattern,
		BasePath:    req.BasePath,
		ContentMode: req.ContentMode,
		GeneratedAt: started,
	}, format)
	if err != nil {
		return err
	}

	if flagOutput == "" {
		_, err := w.Write(data)
		return err
	}
	if err := export.WriteFile(flagOutput, data); err != nil {
		return fmt.Errorf("export to file failed: %w", err)
	}
	fmt.Fprintf(w, "Exported results to: %s\n", flagOutput)
	return nil
}

// recordRun stores the invocation in the history database. Best effort:
// a failure is logged, never fatal to the search that already ran.
func recordRun(ctx context.Context, cfg *config.Config, log *logger.Console, req search.Request, diag *search.Diagnostics, started time.Time) {
	dbPath := cfg.HistoryPath
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultHistoryPath()
		if err != nil {
			log.Warnf("history disabled: %v", err)
			return
		}
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		log.Warnf("history disabled: %v", err)
		return
	}
	defer store.Close()

	run := history.Run{
		RunID:          diag.RunID,
		StartedAt:      started,
		Pattern:        req.Pattern,
		BasePath:       req.BasePath,
		Method:         req.Method.String(),
		ContentMode:    req.ContentMode,
		MaxDepth:       req.MaxDepth,
		MatchCount:     diag.Matches,
		EntriesVisited: diag.EntriesVisited,
		FilesScanned:   diag.FilesScanned,
		BinarySkipped:  diag.BinarySkipped,
		AccessErrors:   diag.AccessErrors,
		Duration:       diag.Duration,
	}
	if err := store.Record(ctx, run); err != nil {
		log.Warnf("record history: %v", err)
	}
}
