package builtin

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCallUUID(t *testing.T) {
	r := NewRegistry()
	got, err := r.Call("uuid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("Call(uuid) = %q, not a valid UUID: %v", got, err)
	}
}

func TestCallNow(t *testing.T) {
	r := NewRegistry()
	got, err := r.Call("now")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, got); err != nil {
		t.Errorf("Call(now) = %q, not RFC3339: %v", got, err)
	}
}

func TestCallTimestamp(t *testing.T) {
	r := NewRegistry()
	got, err := r.Call("timestamp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts, err := strconv.ParseInt(got, 10, 64)
	if err != nil {
		t.Fatalf("Call(timestamp) = %q, not an integer", got)
	}
	now := time.Now().Unix()
	if ts < now-5 || ts > now+5 {
		t.Errorf("Call(timestamp) = %d, too far from %d", ts, now)
	}
}

func TestCallRandomString(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("randomString(8)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("randomString(8) produced %d characters: %q", len(got), got)
	}

	if _, err := r.Call("randomString(zero)"); err == nil {
		t.Error("expected error for non-numeric length")
	}
}

func TestCallBase64(t *testing.T) {
	r := NewRegistry()
	got, err := r.Call("base64(hello)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "aGVsbG8=" {
		t.Errorf("base64(hello) = %q", got)
	}
}

func TestCallInvalid(t *testing.T) {
	r := NewRegistry()
	for _, expr := range []string{"nope", "uuid(", "definitely not"} {
		if _, err := r.Call(expr); err == nil {
			t.Errorf("Call(%q) expected error", expr)
		} else if !strings.Contains(err.Error(), "invalid expr") && !strings.Contains(err.Error(), expr) {
			t.Errorf("Call(%q) error should name the expr: %v", expr, err)
		}
	}
}

func TestRegisterCustom(t *testing.T) {
	r := NewRegistry()
	r.Register("constant", func(_ []string) (string, error) {
		return "42", nil
	})
	got, err := r.Call("constant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42" {
		t.Errorf("custom function = %q, want 42", got)
	}
}
