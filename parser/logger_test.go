package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}

	// None of these may panic; there is nothing else to observe.
	l.Debug("msg", "key", "value")
	l.Info("msg")
	l.Warn("msg", "odd-arg")
	l.Error("msg", "key", "value")

	if _, ok := l.With("key", "value").(NopLogger); !ok {
		t.Error("With should return a NopLogger")
	}
}

func TestSlogAdapter(t *testing.T) {
	newBufferedAdapter := func(level slog.Level) (*SlogAdapter, *bytes.Buffer) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
		return NewSlogAdapter(slog.New(handler)), &buf
	}

	t.Run("nil logger falls back to default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		if adapter.logger == nil {
			t.Error("adapter.logger should not be nil")
		}
	})

	t.Run("levels map through", func(t *testing.T) {
		adapter, buf := newBufferedAdapter(slog.LevelDebug)

		adapter.Debug("debug line", "key", "value")
		adapter.Info("info line")
		adapter.Warn("warn line")
		adapter.Error("error line")

		output := buf.String()
		for _, want := range []string{"DEBUG", "INFO", "WARN", "ERROR", "key=value"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output, got: %s", want, output)
			}
		}
	})

	t.Run("With prepends attributes", func(t *testing.T) {
		adapter, buf := newBufferedAdapter(slog.LevelDebug)

		scoped := adapter.With("component", "resolver").With("depth", 2)
		scoped.Debug("following alias", "ref", "#/components/parameters/PageSize")

		output := buf.String()
		for _, want := range []string{"component=resolver", "depth=2", "ref=#/components/parameters/PageSize"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output, got: %s", want, output)
			}
		}
	})

	t.Run("With returns a new adapter", func(t *testing.T) {
		adapter, buf := newBufferedAdapter(slog.LevelDebug)

		scoped := adapter.With("component", "parser")
		adapter.Debug("unscoped line")

		if strings.Contains(buf.String(), "component=parser") {
			t.Errorf("base adapter should not carry the With attribute, got: %s", buf.String())
		}
		if _, ok := scoped.(*SlogAdapter); !ok {
			t.Errorf("With should return *SlogAdapter, got %T", scoped)
		}
	})
}

// TestParserDebugLogging wires a buffered slog handler into the parser and
// checks that a successful parse emits its debug record.
func TestParserDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	p := New()
	p.Logger = NewSlogAdapter(slog.New(handler))

	if _, err := p.ParseBytes([]byte(petstoreYAML)); err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "parsed document") {
		t.Errorf("expected a 'parsed document' debug record, got: %s", output)
	}
	if !strings.Contains(output, "version=3.0.3") {
		t.Errorf("expected the document version attribute, got: %s", output)
	}
}

// TestParserNoLoggerDefaultsQuiet confirms parsing works with no logger set.
func TestParserNoLoggerDefaultsQuiet(t *testing.T) {
	p := New()
	if p.Logger != nil {
		t.Fatal("New should not install a logger")
	}
	if _, err := p.ParseBytes([]byte(petstoreYAML)); err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
}
