package request

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kuiper-http/kuiper/packages/core/config"
	"github.com/kuiper-http/kuiper/packages/core/env"
	"github.com/kuiper-http/kuiper/packages/core/headers"
)

// Chain returns the ordered list of directories from the traversal
// root down to the request file's containing directory, plus the root
// itself. The walk ascends until it hits a directory holding a
// kuiper config file or .kuiper-root marker, or the filesystem root.
func Chain(requestPath string) (dirs []string, root string, err error) {
	abs, err := filepath.Abs(requestPath)
	if err != nil {
		return nil, "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, requestPath)
		}
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is a directory", ErrNotFound, requestPath)
	}

	var reversed []string
	for dir := filepath.Dir(abs); ; {
		reversed = append(reversed, dir)
		if config.IsRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	dirs = make([]string, len(reversed))
	for i, d := range reversed {
		dirs[len(reversed)-1-i] = d
	}
	return dirs, dirs[0], nil
}

// Layer is one contribution to the merged header set, kept for
// provenance reporting.
type Layer struct {
	// Source is the overlay path, the request file path, or the
	// config file's directory for workspace default headers.
	Source  string
	Headers headers.Headers
}

// Layers returns the ordered header layers for a request: workspace
// config defaults first, then each directory overlay root-most to
// leaf-most, then the request file's own headers.
func Layers(requestPath string) ([]Layer, *config.Config, error) {
	req, err := ParseFile(requestPath)
	if err != nil {
		return nil, nil, err
	}
	return layersFor(req)
}

func layersFor(req *Request) ([]Layer, *config.Config, error) {
	dirs, root, err := Chain(req.Name)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	var layers []Layer
	if len(cfg.Headers) > 0 {
		base := make(headers.Headers, len(cfg.Headers))
		for name, value := range cfg.Headers {
			base[name] = headers.Value(value)
		}
		layers = append(layers, Layer{Source: root, Headers: base})
	}

	for _, dir := range dirs {
		layer, err := headers.LoadOverlay(dir)
		if err != nil {
			return nil, nil, err
		}
		if layer == nil {
			continue
		}
		layers = append(layers, Layer{
			Source:  filepath.Join(dir, headers.OverlayFilename),
			Headers: layer,
		})
	}

	if len(req.Headers) > 0 {
		layers = append(layers, Layer{Source: req.Name, Headers: req.Headers})
	}

	return layers, cfg, nil
}

// Find loads a .kuiper file and folds its directory overlay chain
// into the final merged header set. No placeholder substitution
// happens here; see Interpolate.
func Find(path string) (*Request, *config.Config, error) {
	req, err := ParseFile(path)
	if err != nil {
		return nil, nil, err
	}

	layers, cfg, err := layersFor(req)
	if err != nil {
		return nil, nil, err
	}

	merged := make(headers.Merged)
	for _, layer := range layers {
		merged.Apply(layer.Headers)
	}
	req.Merged = merged

	return req, cfg, nil
}

// Interpolate substitutes placeholders in the URI, params, merged
// headers and body. The body must still be valid JSON afterwards.
func (r *Request) Interpolate(resolver *env.Resolver) error {
	uri, err := resolver.Resolve(r.URI)
	if err != nil {
		return err
	}
	r.URI = uri

	if r.Params != nil {
		params, err := resolver.ResolveAll(r.Params)
		if err != nil {
			return err
		}
		r.Params = params
	}

	if r.Merged != nil {
		merged, err := resolver.ResolveAll(r.Merged)
		if err != nil {
			return err
		}
		r.Merged = merged
	}

	if r.HasBody() {
		body, err := resolver.Resolve(string(r.Body))
		if err != nil {
			return err
		}
		if !json.Valid([]byte(body)) {
			return &ParseError{Path: r.Name, Err: fmt.Errorf("body is not valid JSON after interpolation")}
		}
		r.Body = json.RawMessage(body)
	}

	return nil
}
