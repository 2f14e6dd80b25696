package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/kuiper-http/kuiper/packages/core/request"
	kuiperhttp "github.com/kuiper-http/kuiper/packages/http"
)

// JSONFormatter emits one machine-readable document per exchange.
type JSONFormatter struct {
	writer io.Writer
	query  string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func JSONWithQuery(path string) JSONOption {
	return func(f *JSONFormatter) {
		f.query = path
	}
}

type exchangeDocument struct {
	Request  requestDocument  `json:"request"`
	Response responseDocument `json:"response"`
}

type requestDocument struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URI     string            `json:"uri"`
	Headers map[string]string `json:"headers,omitempty"`
}

type responseDocument struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       json.RawMessage   `json:"body,omitempty"`
	BodyText   string            `json:"bodyText,omitempty"`
	DurationMs int64             `json:"durationMs"`
	Query      string            `json:"query,omitempty"`
}

func (f *JSONFormatter) FormatResponse(req *request.Request, resp *kuiperhttp.Response) error {
	doc := exchangeDocument{
		Request: requestDocument{
			Name:    req.Name,
			Method:  req.Method,
			URI:     req.URI,
			Headers: req.Merged,
		},
		Response: responseDocument{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			DurationMs: resp.DurationMs(),
		},
	}

	if f.query != "" {
		result := gjson.GetBytes(resp.Body, f.query)
		if !result.Exists() {
			return fmt.Errorf("no value at path %q", f.query)
		}
		doc.Response.Query = result.String()
	} else if resp.IsJSON() && json.Valid(resp.Body) {
		doc.Response.Body = resp.Body
	} else if len(resp.Body) > 0 {
		doc.Response.BodyText = resp.BodyString()
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// FormatRequest emits only the resolved request, for dry runs.
func (f *JSONFormatter) FormatRequest(req *request.Request) {
	doc := requestDocument{
		Name:    req.Name,
		Method:  req.Method,
		URI:     req.URI,
		Headers: req.Merged,
	}
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(doc)
}

func (f *JSONFormatter) FormatError(err error) {
	_ = json.NewEncoder(f.writer).Encode(map[string]string{"error": err.Error()})
}
