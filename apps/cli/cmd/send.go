package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kuiper-http/kuiper/packages/core/config"
	"github.com/kuiper-http/kuiper/packages/core/env"
	"github.com/kuiper-http/kuiper/packages/core/headers"
	"github.com/kuiper-http/kuiper/packages/core/request"
	"github.com/kuiper-http/kuiper/packages/history"
	kuiperhttp "github.com/kuiper-http/kuiper/packages/http"
	"github.com/kuiper-http/kuiper/packages/output"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	envFileFlag  string
	verboseFlag  bool
	outputFlag   string
	queryFlag    string
	timeoutFlag  string
	insecureFlag bool
	proxyFlag    string
	noColorFlag  bool
	dryRunFlag   bool
	watchFlag    bool
)

func init() {
	rootCmd.Flags().StringVarP(&envFileFlag, "env-file", "e", getEnvString("KUIPER_ENV_FILE", ""), "Path to .env file for {{env:NAME}} substitution (env: KUIPER_ENV_FILE)")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show the request line and response headers")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("KUIPER_OUTPUT", "console"), "Output format: console, json (env: KUIPER_OUTPUT)")
	rootCmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Print only the value at a gjson path of the response body")
	rootCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout (e.g., 30s, 1m); overrides the workspace config")
	rootCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("KUIPER_INSECURE", false), "Disable SSL certificate validation (env: KUIPER_INSECURE)")
	rootCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("KUIPER_PROXY", ""), "Proxy URL for the request (env: KUIPER_PROXY)")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("KUIPER_NO_COLOR", false), "Disable colored output (env: KUIPER_NO_COLOR)")
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the resolved request without sending it")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the request and its header overlays, re-send on change")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Formatter renders one exchange to the user.
type Formatter interface {
	FormatResponse(req *request.Request, resp *kuiperhttp.Response) error
	FormatRequest(req *request.Request)
	FormatError(err error)
}

func newFormatter(cfg *config.Config) Formatter {
	switch strings.ToLower(outputFlag) {
	case "json":
		opts := []output.JSONOption{}
		if queryFlag != "" {
			opts = append(opts, output.JSONWithQuery(queryFlag))
		}
		return output.NewJSONFormatter(opts...)
	default: // "console"
		opts := []output.ConsoleOption{
			output.WithVerbose(verboseFlag),
			output.WithNoColor(noColorFlag || cfg.GetNoColor()),
		}
		if queryFlag != "" {
			opts = append(opts, output.WithQuery(queryFlag))
		}
		return output.NewConsoleFormatter(opts...)
	}
}

// resolveRequest loads the env file, resolves the overlay chain and
// substitutes placeholders.
func resolveRequest(path string) (*request.Request, *config.Config, error) {
	if envFileFlag != "" {
		if _, err := os.Stat(envFileFlag); err != nil {
			return nil, nil, fmt.Errorf("%w: env file %s", request.ErrNotFound, envFileFlag)
		}
		if _, err := env.LoadAndExportDotEnv(envFileFlag); err != nil {
			return nil, nil, err
		}
	}

	req, cfg, err := request.Find(path)
	if err != nil {
		return nil, nil, err
	}

	if err := req.Interpolate(env.NewResolver()); err != nil {
		return nil, nil, err
	}
	return req, cfg, nil
}

func clientFromConfig(cfg *config.Config) (*kuiperhttp.Client, error) {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, &usageError{msg: fmt.Sprintf("invalid timeout value %q (use format like 30s, 1m, 500ms)", timeoutFlag)}
		}
		timeout = d
	}

	proxy := cfg.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}

	validateSSL := cfg.GetValidateSSL()
	if insecureFlag {
		validateSSL = false
	}

	opts := []kuiperhttp.ClientOption{
		kuiperhttp.WithTimeout(timeout),
		kuiperhttp.WithFollowRedirects(cfg.GetFollowRedirects()),
		kuiperhttp.WithValidateSSL(validateSSL),
	}
	if cfg.MaxRedirects > 0 {
		opts = append(opts, kuiperhttp.WithMaxRedirects(cfg.MaxRedirects))
	}
	if proxy != "" {
		opts = append(opts, kuiperhttp.WithProxy(proxy))
	}
	return kuiperhttp.NewClient(opts...), nil
}

func sendCommand(cmd *cobra.Command, path string) error {
	if err := sendOnce(cmd, path); err != nil {
		return err
	}
	if !watchFlag {
		return nil
	}
	return watchAndResend(cmd, path)
}

func sendOnce(cmd *cobra.Command, path string) error {
	req, cfg, err := resolveRequest(path)
	if err != nil {
		return err
	}

	formatter := newFormatter(cfg)

	if dryRunFlag {
		formatter.FormatRequest(req)
		return nil
	}

	client, err := clientFromConfig(cfg)
	if err != nil {
		return err
	}

	resp, err := client.Do(context.Background(), req)
	if err != nil {
		return err
	}

	if cfg.GetHistory() {
		recordExchange(cfg, req, resp)
	}

	return formatter.FormatResponse(req, resp)
}

func recordExchange(cfg *config.Config, req *request.Request, resp *kuiperhttp.Response) {
	path := cfg.HistoryPath
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot locate history database: %v\n", err)
			return
		}
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open history database: %v\n", err)
		return
	}
	defer store.Close()

	err = store.Record(context.Background(), history.Entry{
		RequestAt:  time.Now(),
		Name:       req.Name,
		Method:     req.Method,
		URI:        req.URI,
		StatusCode: resp.StatusCode,
		DurationMs: resp.DurationMs(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record exchange: %v\n", err)
	}
}

// watchAndResend re-issues the request whenever the .kuiper file or
// any headers.json on its overlay chain changes.
func watchAndResend(cmd *cobra.Command, path string) error {
	dirs, _, err := request.Chain(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) || !isWatchRelevant(event.Name) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\n\n", event.Name)
				if err := sendOnce(cmd, path); err != nil {
					newFormatter(config.DefaultConfig()).FormatError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

func isWatchRelevant(name string) bool {
	return strings.HasSuffix(name, request.Extension) ||
		strings.HasSuffix(name, headers.OverlayFilename)
}
