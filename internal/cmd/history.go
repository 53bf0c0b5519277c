package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cumulus13/fsearch/internal/config"
	"github.com/cumulus13/fsearch/internal/history"
)

var historyLimit int

// NewHistoryCommand creates the 'fsearch history' subcommand.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Long: `List recent search invocations recorded in the history database.

Only invocation metadata is stored (pattern, path, counters); search
results themselves are never cached.`,
		RunE: runHistoryShow,
	}

	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded searches",
		RunE:  runHistoryClear,
	})

	return cmd
}

func openHistoryStore() (*history.Store, error) {
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

	dbPath := cfg.HistoryPath
	if dbPath == "" {
		dbPath, err = config.DefaultHistoryPath()
		if err != nil {
			return nil, err
		}
	}
	return history.NewStore(dbPath)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded searches")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPATTERN\tPATH\tMODE\tMETHOD\tMATCHES\tDURATION")
	for _, r := range runs {
		mode := "name"
		if r.ContentMode {
			mode = "content"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Pattern, r.BasePath, mode, r.Method, r.MatchCount,
			r.Duration.Round(time.Millisecond))
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d recorded searches\n", n)
	return nil
}
