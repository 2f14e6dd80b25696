package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/kuiper-http/kuiper/packages/core/request"
	kuiperhttp "github.com/kuiper-http/kuiper/packages/http"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
	query   string
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithQuery restricts body output to the value at a gjson path.
func WithQuery(path string) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.query = path
	}
}

func (f *ConsoleFormatter) FormatResponse(req *request.Request, resp *kuiperhttp.Response) error {
	cyan := color.New(color.FgCyan).SprintFunc()

	statusColor := color.New(color.FgGreen)
	switch {
	case resp.IsServerError() || resp.IsClientError():
		statusColor = color.New(color.FgRed)
	case resp.StatusCode >= 300:
		statusColor = color.New(color.FgYellow)
	}

	fmt.Fprintf(f.writer, "%s %s\n", statusColor.Sprint(resp.Status), cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))

	if f.verbose {
		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(f.writer, "%s %s %s\n", bold(req.Method), req.URI, "HTTP/1.1")
		for _, name := range sortedKeys(resp.Headers) {
			fmt.Fprintf(f.writer, "%s: %s\n", cyan(name), resp.Headers[name])
		}
		fmt.Fprintf(f.writer, "\n")
	}

	if f.query != "" {
		result := gjson.GetBytes(resp.Body, f.query)
		if !result.Exists() {
			return fmt.Errorf("no value at path %q", f.query)
		}
		fmt.Fprintf(f.writer, "%s\n", result.String())
		return nil
	}

	if len(resp.Body) == 0 {
		return nil
	}

	if resp.IsJSON() && gjson.ValidBytes(resp.Body) {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, resp.Body, "", "  "); err == nil {
			fmt.Fprintf(f.writer, "%s\n", pretty.String())
			return nil
		}
	}

	fmt.Fprintf(f.writer, "%s\n", resp.BodyString())
	return nil
}

// FormatRequest prints the resolved request without sending it.
func (f *ConsoleFormatter) FormatRequest(req *request.Request) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(req.Method), req.URI)
	for _, name := range req.Merged.Names() {
		fmt.Fprintf(f.writer, "%s: %s\n", cyan(name), req.Merged[name])
	}
	if req.HasBody() {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, req.Body, "", "  "); err == nil {
			fmt.Fprintf(f.writer, "\n%s\n", pretty.String())
		} else {
			fmt.Fprintf(f.writer, "\n%s\n", string(req.Body))
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
