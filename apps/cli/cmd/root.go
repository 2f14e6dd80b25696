package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "kuiper <request.kuiper>",
	Short: "File-based HTTP requests with inherited headers.",
	Long: `kuiper issues a single HTTP request described by a .kuiper JSON file.

Header configuration is inherited from headers.json files in ancestor
directories: the closer a file is to the request, the higher its
precedence, and a null value cancels an inherited header. Values can
reference the environment with {{env:NAME}} and generated values with
{{expr:uuid}} or {{expr:now}}.

Examples:
  kuiper api/users/get_user.kuiper
  kuiper api/users/get_user.kuiper -e staging.env
  kuiper api/users/get_user.kuiper -q "items.0.id"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return &usageError{msg: "expected exactly one request file"}
		}
		return sendCommand(cmd, args[0])
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
