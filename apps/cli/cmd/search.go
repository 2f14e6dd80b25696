package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/core/request"
)

var searchRootFlag string

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Find .kuiper request files by name",
	Long: `Find .kuiper request files whose path contains the given term.
With no term, every request file under the root is listed.

Examples:
  kuiper search user
  kuiper search --root ./requests order`,
	Args: cobra.MaximumNArgs(1),
	RunE: searchCommand,
}

func init() {
	searchCmd.Flags().StringVar(&searchRootFlag, "root", ".", "Directory to search from")
}

func searchCommand(cmd *cobra.Command, args []string) error {
	term := ""
	if len(args) == 1 {
		term = args[0]
	}

	matches, err := request.Search(searchRootFlag, term)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no request files found\n")
		return nil
	}

	for _, path := range matches {
		req, err := request.ParseFile(path)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n", path, req.Method, req.URI)
	}

	return nil
}
