package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/core/config"
	"github.com/kuiper-http/kuiper/packages/core/headers"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new kuiper workspace",
	Long: `Initialize a new kuiper workspace in the given directory
(default: the current directory).

This creates:
  - kuiper.config.json  - Workspace configuration (marks the traversal root)
  - headers.json        - Workspace-wide header overlay
  - example.kuiper      - Example request file

Examples:
  kuiper init
  kuiper init ./requests --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	configFile := filepath.Join(dir, config.ConfigFilenames[0])
	overlayFile := filepath.Join(dir, headers.OverlayFilename)
	exampleFile := filepath.Join(dir, "example.kuiper")

	if !forceInit {
		for _, f := range []string{configFile, overlayFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	configContent := `{
  "timeout": 30000,
  "followRedirects": true,
  "maxRedirects": 10,
  "validateSSL": true
}
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	overlayContent := `{
  "Accept": "application/json",
  "User-Agent": "kuiper/1.0"
}
`
	if err := os.WriteFile(overlayFile, []byte(overlayContent), 0644); err != nil {
		return fmt.Errorf("failed to create header overlay: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", overlayFile)

	exampleContent := `{
  "uri": "https://httpbin.org/get",
  "method": "GET",
  "params": {
    "greeting": "hello"
  },
  "headers": {
    "X-Request-Id": "{{expr:uuid}}"
  }
}
`
	if err := os.WriteFile(exampleFile, []byte(exampleContent), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nkuiper workspace initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'kuiper %s' to send the example request.\n", exampleFile)

	return nil
}
