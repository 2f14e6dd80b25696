package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/core/headers"
	"github.com/kuiper-http/kuiper/packages/core/request"
)

var headersCmd = &cobra.Command{
	Use:   "headers <request.kuiper>",
	Short: "Show the merged header set for a request",
	Long: `Show the header set a request would be sent with, and which layer
each value (or removal) came from. Values are shown before placeholder
substitution.

Examples:
  kuiper headers api/users/get_user.kuiper`,
	Args: cobra.ExactArgs(1),
	RunE: headersCommand,
}

func headersCommand(cmd *cobra.Command, args []string) error {
	if noColorFlag {
		color.NoColor = true
	}

	layers, _, err := request.Layers(args[0])
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	merged := make(headers.Merged)
	// origin tracks the layer that last set each surviving header.
	origin := make(map[string]string)
	for _, layer := range layers {
		for name, value := range layer.Headers {
			if value == nil {
				delete(origin, name)
				continue
			}
			origin[name] = layer.Source
		}
		merged.Apply(layer.Headers)
	}

	if len(merged) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no headers\n")
		return nil
	}

	for _, name := range merged.Names() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s  %s\n",
			cyan(name), merged[name], yellow("("+origin[name]+")"))
	}

	return nil
}
