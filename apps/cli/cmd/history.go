package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/core/config"
	"github.com/kuiper-http/kuiper/packages/history"
)

var (
	historyLimitFlag int
	historyDBFlag    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently sent requests",
	Long: `Show recently sent requests from the history database.

Recording is opt-in: set "history": true in kuiper.config.json.
The database location can be overridden with historyPath in the
config or the --db flag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := historyDBFlag
		if path == "" {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			path = cfg.HistoryPath
		}
		if path == "" {
			var err error
			path, err = history.DefaultPath()
			if err != nil {
				return err
			}
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(context.Background(), historyLimitFlag)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recorded requests.")
			return nil
		}

		dim := color.New(color.Faint).SprintFunc()
		for _, e := range entries {
			status := color.GreenString("%d", e.StatusCode)
			switch {
			case e.StatusCode >= 500:
				status = color.RedString("%d", e.StatusCode)
			case e.StatusCode >= 400:
				status = color.YellowString("%d", e.StatusCode)
			case e.StatusCode >= 300:
				status = color.CyanString("%d", e.StatusCode)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-7s %s  %s\n",
				dim(e.RequestAt.Local().Format("2006-01-02 15:04:05")),
				status,
				e.Method,
				e.URI,
				dim(fmt.Sprintf("(%dms)", e.DurationMs)))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyDBFlag, "db", "", "Path to the history database")
}
