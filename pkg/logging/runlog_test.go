package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestNewRunLogger_WritesArtifact(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	runlog, err := NewRunLogger(RunLogOptions{
		Command: "deploy",
		Dir:     dir,
		Level:   slog.LevelInfo,
		Console: &console,
	})
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}

	runlog.Logger.Info("applying resource set", "set", "storage")
	runlog.Logger.Warn("optional tool not found", "tool", "helm")
	runlog.Logger.Error("apply rejected", "set", "ingress")

	if err := runlog.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if runlog.Path == "" {
		t.Fatal("expected artifact path to be set")
	}
	content, err := os.ReadFile(runlog.Path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %s", len(lines), content)
	}

	wantLevels := []string{"INFO", "WARNING", "ERROR"}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if entry["level"] != wantLevels[i] {
			t.Errorf("line %d level = %v, want %s", i, entry["level"], wantLevels[i])
		}
	}

	// Both sinks receive every record.
	if !strings.Contains(console.String(), "applying resource set") {
		t.Error("console sink missing info record")
	}
	if !strings.Contains(console.String(), "apply rejected") {
		t.Error("console sink missing error record")
	}
}

func TestNewRunLogger_FileNamePattern(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	runlog, err := NewRunLogger(RunLogOptions{
		Command: "clean",
		Dir:     dir,
		Console: &console,
	})
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}
	defer runlog.Close()

	pattern := regexp.MustCompile(`^lmsctl-clean-\d{8}-\d{6}\.log$`)
	base := filepath.Base(runlog.Path)
	if !pattern.MatchString(base) {
		t.Errorf("artifact name %q does not match lmsctl-clean-<yyyymmdd-hhmmss>.log", base)
	}
}

func TestNewRunLogger_NoFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	runlog, err := NewRunLogger(RunLogOptions{
		Command: "verify",
		Dir:     dir,
		Console: &console,
		NoFile:  true,
	})
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}

	runlog.Logger.Info("namespace state captured")

	if runlog.Path != "" {
		t.Errorf("expected empty path, got %q", runlog.Path)
	}
	if err := runlog.Close(); err != nil {
		t.Errorf("Close on file-less run log should not error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no artifacts, found %d", len(entries))
	}
	if console.Len() == 0 {
		t.Error("console sink should still receive records")
	}
}

func TestNewRunLogger_LevelFilter(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	runlog, err := NewRunLogger(RunLogOptions{
		Command: "deploy",
		Dir:     dir,
		Level:   slog.LevelError,
		Console: &console,
	})
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}

	runlog.Logger.Info("should be filtered")
	runlog.Logger.Error("should be recorded")

	if err := runlog.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := os.ReadFile(runlog.Path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if strings.Contains(string(content), "should be filtered") {
		t.Error("info record should not reach the file at error level")
	}
	if !strings.Contains(string(content), "should be recorded") {
		t.Error("error record missing from the file")
	}
}

func TestNewRunLogger_BadDirectory(t *testing.T) {
	// A file standing where the log directory should be.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "logs")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	_, err := NewRunLogger(RunLogOptions{
		Command: "deploy",
		Dir:     blocker,
		Console: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error when log directory cannot be created")
	}
}
