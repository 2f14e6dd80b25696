package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/core/headers"
	"github.com/kuiper-http/kuiper/packages/core/request"
	"github.com/kuiper-http/kuiper/packages/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate .kuiper and headers.json files",
	Long: `Validate .kuiper request files and headers.json overlays against
their schemas without sending anything.

Examples:
  kuiper validate api/users/get_user.kuiper
  kuiper validate ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectValidatable(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .kuiper or %s files found", headers.OverlayFilename)
	}

	hasErrors := false
	for _, file := range files {
		result, err := schema.ValidateFile(file)
		if err != nil {
			return err
		}
		if result.Valid() {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
			continue
		}
		hasErrors = true
		for _, msg := range result.Errors {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %s\n", file, msg)
		}
	}

	if hasErrors {
		return &validationError{}
	}
	return nil
}

// validationError maps schema violations onto the parse-error exit code.
type validationError struct{}

func (e *validationError) Error() string {
	return "validation failed"
}

func collectValidatable(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", request.ErrNotFound, arg)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if filepath.Ext(path) == request.Extension || filepath.Base(path) == headers.OverlayFilename {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
