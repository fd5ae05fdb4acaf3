package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
		Focus:  []string{" theming.resolver ", ""},
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("theming.resolver")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logger.WithContext(context.Background())
	if child == nil {
		t.Fatal("expected WithContext to return logger")
	}
	child.Debug("adapter.initialised")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if logger := p.GetLogger("theming"); logger == nil {
		t.Fatal("expected no-op logger from nil provider")
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "theme", "dark")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"theme": "dark"}
	if child := adapted.(interfaces.FieldsLogger).WithFields(fields); child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["theme"] = "light"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["theme"] != "dark" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["theme"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"WARNING": glog.Warn,
		" info ":  glog.Info,
		"verbose": "",
	}
	for in, want := range cases {
		if got := normalizeLevel(in); got != want {
			t.Fatalf("normalizeLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQualify(t *testing.T) {
	cases := map[string]string{
		"":                  "theming",
		" theming ":         "theming",
		"resolver":          "theming.resolver",
		"theming.views":     "theming.views",
		".http.":            "theming.http",
		"themingextra":      "theming.themingextra",
		"theming.resolver.": "theming.resolver",
	}
	for in, want := range cases {
		if got := qualify(in); got != want {
			t.Fatalf("qualify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProviderQualifiesAndDedupesFocus(t *testing.T) {
	p, err := NewProvider(Config{Focus: []string{"views", " theming.views ", "resolver", "  "}})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	got := p.Focus()
	if len(got) != 2 || got[0] != "theming.resolver" || got[1] != "theming.views" {
		t.Fatalf("unexpected focus %v", got)
	}

	empty, err := NewProvider(Config{Focus: []string{" "}})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if empty.Focus() != nil {
		t.Fatalf("expected no focus, got %v", empty.Focus())
	}
}

func TestAdapterMergesContextFields(t *testing.T) {
	stub := &stubLogger{}
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"theme": "dark", "partial": "nav"})

	wrap(stub).WithContext(ctx)
	if len(stub.fields) != 1 || stub.fields[0]["theme"] != "dark" || stub.fields[0]["partial"] != "nav" {
		t.Fatalf("expected context fields, got %v", stub.fields)
	}
}

func TestAdapterAppendsFieldsForPlainLoggers(t *testing.T) {
	stub := &plainLogger{}
	logger := wrap(stub).(interfaces.FieldsLogger).WithFields(map[string]any{"theme": "dark", "category": "view"})

	logger.Info("resolved", "path", "~/Views/Home.cshtml")
	want := []any{"category", "view", "theme", "dark", "path", "~/Views/Home.cshtml"}
	if len(stub.args) != 1 || len(stub.args[0]) != len(want) {
		t.Fatalf("unexpected args %v", stub.args)
	}
	for i := range want {
		if stub.args[0][i] != want[i] {
			t.Fatalf("arg %d: expected %v, got %v", i, want[i], stub.args[0][i])
		}
	}
}

type plainLogger struct {
	args [][]any
}

func (p *plainLogger) Trace(string, ...any)                    {}
func (p *plainLogger) Debug(string, ...any)                    {}
func (p *plainLogger) Info(_ string, args ...any)              { p.args = append(p.args, args) }
func (p *plainLogger) Warn(string, ...any)                     {}
func (p *plainLogger) Error(string, ...any)                    {}
func (p *plainLogger) Fatal(string, ...any)                    {}
func (p *plainLogger) WithContext(context.Context) glog.Logger { return p }

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
