package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/rcstrings/internal/logging"
)

func newBuffered(level slog.Level, asJSON bool) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.New(logging.Options{Level: level, Output: &buf, JSON: asJSON}), &buf
}

func TestAddedResourceRecord(t *testing.T) {
	logger, buf := newBuffered(logging.LevelInfo, false)

	logger.With(logging.File(`C:\src\app\app.rc`)).
		Info("added string resource", logging.Resource("IDS_HELLO"), logging.ID(101))

	line := buf.String()
	for _, want := range []string{
		"msg=\"added string resource\"",
		`file=C:\src\app\app.rc`,
		"resource=IDS_HELLO",
		"id=101",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("record lacks %q: %s", want, line)
		}
	}
}

func TestHeaderSyncRecordAsJSON(t *testing.T) {
	logger, buf := newBuffered(logging.LevelInfo, true)

	logger.Info("synchronized header",
		logging.Header("/src/app/resource.h"),
		logging.Project("App"),
		logging.Operation("sync-header"),
		logging.Count(3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("record is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]any{
		logging.KeyHeader:    "/src/app/resource.h",
		logging.KeyProject:   "App",
		logging.KeyOperation: "sync-header",
		logging.KeyCount:     float64(3),
		"msg":                "synchronized header",
	}
	for key, v := range want {
		if record[key] != v {
			t.Errorf("record[%q] = %v, want %v", key, record[key], v)
		}
	}
}

func TestAttributeKeys(t *testing.T) {
	tests := map[string]struct {
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		"script":   {attr: logging.File("app.rc"), wantKey: "file", wantVal: "app.rc"},
		"header":   {attr: logging.Header("resource.h"), wantKey: "header", wantVal: "resource.h"},
		"resource": {attr: logging.Resource("IDS_OPEN"), wantKey: "resource", wantVal: "IDS_OPEN"},
		"id":       {attr: logging.ID(32767), wantKey: "id", wantVal: "32767"},
		"project":  {attr: logging.Project("Lib"), wantKey: "project", wantVal: "Lib"},
		"path":     {attr: logging.Path("main.cpp"), wantKey: "path", wantVal: "main.cpp"},
		"count":    {attr: logging.Count(0), wantKey: "count", wantVal: "0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey || tt.attr.Value.String() != tt.wantVal {
				t.Errorf("got %s=%s, want %s=%s", tt.attr.Key, tt.attr.Value, tt.wantKey, tt.wantVal)
			}
		})
	}
}

func TestErrAttribute(t *testing.T) {
	logger, buf := newBuffered(logging.LevelInfo, false)

	logger.Warn("skipping unreadable header", logging.Header("gone.h"), logging.Err(nil))
	if strings.Contains(buf.String(), "error=") {
		t.Errorf("nil error should leave no attribute: %s", buf.String())
	}

	buf.Reset()
	logger.Warn("skipping unreadable header", logging.Header("gone.h"), logging.Err(errors.New("permission denied")))
	if !strings.Contains(buf.String(), `error="permission denied"`) {
		t.Errorf("expected the error text in the record: %s", buf.String())
	}
}

func TestLevelForFlags(t *testing.T) {
	tests := map[string]struct {
		verbose, debug bool
		shown          []string
		hidden         []string
	}{
		"default":   {shown: []string{"no id"}, hidden: []string{"added", "loaded"}},
		"--verbose": {verbose: true, shown: []string{"no id", "added"}, hidden: []string{"loaded"}},
		"--debug":   {debug: true, shown: []string{"no id", "added", "loaded"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			logger, buf := newBuffered(logging.LevelFor(tt.verbose, tt.debug), false)
			logger.Debug("loaded")
			logger.Info("added")
			logger.Warn("no id")

			out := buf.String()
			for _, msg := range tt.shown {
				if !strings.Contains(out, "msg=\""+msg+"\"") && !strings.Contains(out, "msg="+msg) {
					t.Errorf("%q should be logged:\n%s", msg, out)
				}
			}
			for _, msg := range tt.hidden {
				if strings.Contains(out, msg) {
					t.Errorf("%q should be filtered:\n%s", msg, out)
				}
			}
		})
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	logger, buf := newBuffered(logging.LevelDebug, false)
	logging.SetDefault(logger)

	logging.Debug("scan", logging.Project("App"))
	logging.Info("write", logging.File("app.rc"))
	logging.Warn("backup", logging.Path("app.rc"))
	logging.Error("header", logging.Header("resource.h"))
	logging.With(logging.Operation("add")).Info("done")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR", "operation=add"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if logging.Default() != logger {
		t.Error("Default() should return the logger passed to SetDefault")
	}
}

func TestContextLogger(t *testing.T) {
	if logging.FromContext(context.Background()) != nil {
		t.Error("expected no logger in an empty context")
	}

	fallback, fallbackBuf := newBuffered(logging.LevelInfo, false)
	logging.SetDefault(fallback)
	logging.WithContext(context.Background()).Info("from default")
	if !strings.Contains(fallbackBuf.String(), "from default") {
		t.Error("WithContext should fall back to the default logger")
	}

	scoped, scopedBuf := newBuffered(logging.LevelInfo, false)
	ctx := logging.NewContext(context.Background(), scoped.With(logging.File("lib.rc")))
	logging.WithContext(ctx).Info("from context")
	if !strings.Contains(scopedBuf.String(), "file=lib.rc") {
		t.Errorf("context logger lost its attributes: %s", scopedBuf.String())
	}
	if strings.Contains(fallbackBuf.String(), "from context") {
		t.Error("context logger should not write to the default logger")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := logging.DefaultOptions()
	if opts.Level != logging.LevelInfo || opts.JSON || opts.AddSource || opts.Output == nil {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if logging.New(logging.Options{}) == nil {
		t.Error("New with zero options should write to stderr")
	}

	var buf bytes.Buffer
	logging.New(logging.Options{Output: &buf, AddSource: true}).Info("where")
	if !strings.Contains(buf.String(), "source=") {
		t.Errorf("expected source location: %s", buf.String())
	}
}
