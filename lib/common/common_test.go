package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ValentinKolb/serjs/lib/serializer"
	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"":        logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for s, want := range tests {
		if got, err := ParseLogLevel(s); err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("ParseLogLevel(verbose) should fail")
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(nil) })
	l := &serjsLogger{name: "test", level: logger.WARNING}

	l.Infof("hidden")
	l.Warningf("shown %d", 1)
	l.Errorf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN  | test       | shown 1") || !strings.Contains(out, "ERROR | test       | shown 2") {
		t.Errorf("unexpected output %q", out)
	}

	l.SetLevel(logger.DEBUG)
	l.Debugf("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug message should be written after SetLevel")
	}
}

func TestInitLoggersRepeated(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(nil) })

	for _, level := range []string{"info", "debug", "error"} {
		if err := InitLoggers(level); err != nil {
			t.Fatalf("InitLoggers(%s) failed: %v", level, err)
		}
	}

	l := logger.GetLogger("cache")
	l.Warningf("filtered")
	l.Errorf("kept")
	if out := buf.String(); strings.Contains(out, "filtered") || !strings.Contains(out, "ERROR | cache      | kept") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestInitLoggersRejectsInvalidLevel(t *testing.T) {
	if err := InitLoggers("loud"); err == nil {
		t.Error("InitLoggers(loud) should fail")
	}
}

func TestParseSource(t *testing.T) {
	if src, err := ParseSource(""); err != nil || src != SourceSecure {
		t.Errorf("ParseSource(\"\") = %s, %v", src, err)
	}
	if src, err := ParseSource("Browser"); err != nil || src != SourceBrowser {
		t.Errorf("ParseSource(Browser) = %s, %v", src, err)
	}
	if _, err := ParseSource("math/rand"); err == nil {
		t.Error("ParseSource(math/rand) should fail")
	}
}

func TestServerConfigString(t *testing.T) {
	c := &ServerConfig{
		Endpoint:       ":8080",
		MaxBodyKB:      512,
		MaxDepth:       64,
		Source:         SourceSecure,
		Options:        serializer.Options{Space: "  "},
		CacheType:      "redis",
		CacheTTLSecond: 60,
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "serjs:",
		LogLevel:       "info",
	}

	out := c.String()
	for _, want := range []string{"HTTP SERVER", ":8080", "512 KB", "RENDER CACHE", "localhost:6379", "60 sec", `"  "`} {
		if !strings.Contains(out, want) {
			t.Errorf("String() should contain %q:\n%s", want, out)
		}
	}
	if c.MaxBodyBytes() != 512*1024 {
		t.Errorf("MaxBodyBytes() = %d", c.MaxBodyBytes())
	}
	if c.CacheTTL().Seconds() != 60 {
		t.Errorf("CacheTTL() = %v", c.CacheTTL())
	}
}

func TestEncodeConfigString(t *testing.T) {
	out := (&EncodeConfig{Format: "yaml", Assign: "window.__STATE__", Source: SourceBrowser}).String()
	for _, want := range []string{"stdin", "yaml", "window.__STATE__", "browser"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() should contain %q:\n%s", want, out)
		}
	}
}
