package builtin

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Func func(args []string) (string, error)

type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["uuid"] = funcUUID
	r.funcs["now"] = funcNow
	r.funcs["timestamp"] = funcTimestamp
	r.funcs["timestampMs"] = funcTimestampMs
	r.funcs["randomString"] = funcRandomString
	r.funcs["base64"] = funcBase64
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Call evaluates an expr token. Both the bare form ("uuid") and the
// call form ("randomString(8)") are accepted.
func (r *Registry) Call(expr string) (string, error) {
	name := expr
	var args []string

	if open := strings.Index(expr, "("); open != -1 {
		if !strings.HasSuffix(expr, ")") {
			return "", fmt.Errorf("invalid expr: %q", expr)
		}
		name = expr[:open]
		if inner := expr[open+1 : len(expr)-1]; inner != "" {
			for _, arg := range strings.Split(inner, ",") {
				args = append(args, strings.TrimSpace(arg))
			}
		}
	}

	fn, ok := r.funcs[name]
	if !ok {
		return "", fmt.Errorf("invalid expr: %q", expr)
	}
	return fn(args)
}

func funcUUID(_ []string) (string, error) {
	return uuid.NewString(), nil
}

func funcNow(args []string) (string, error) {
	layout := time.RFC3339
	if len(args) > 0 {
		layout = args[0]
	}
	return time.Now().UTC().Format(layout), nil
}

func funcTimestamp(_ []string) (string, error) {
	return strconv.FormatInt(time.Now().Unix(), 10), nil
}

func funcTimestampMs(_ []string) (string, error) {
	return strconv.FormatInt(time.Now().UnixMilli(), 10), nil
}

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func funcRandomString(args []string) (string, error) {
	length := 16
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("randomString: length must be a positive integer, got %q", args[0])
		}
		length = n
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = randomAlphabet[rand.Intn(len(randomAlphabet))]
	}
	return string(b), nil
}

func funcBase64(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("base64: expected one argument, got %d", len(args))
	}
	return base64.StdEncoding.EncodeToString([]byte(args[0])), nil
}
