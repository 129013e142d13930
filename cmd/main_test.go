package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gavinmcnair/datesort/pkg/testsupport"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q in output:\n%s", want, out)
	}
}

func TestRootOrganisesDirectory(t *testing.T) {
	root := t.TempDir()
	mtime := time.Date(2022, 1, 1, 12, 0, 0, 0, time.Local)
	testsupport.WriteFile(t, filepath.Join(root, "clip.mov"), []byte("frames"), mtime)
	testsupport.WriteFile(t, filepath.Join(root, "note.txt"), []byte("remember"), mtime)

	out, logs, err := runCLI(t, "--root", root, "--log-format", "JSON")
	if err != nil {
		t.Fatalf("datesort: %v", err)
	}
	requireContains(t, out, "placed")
	requireContains(t, logs, `"message":"moved"`)

	if !testsupport.Exists(filepath.Join(root, "2022-01-01", "clip.mov")) {
		t.Fatal("clip.mov was not moved")
	}
	if !testsupport.Exists(filepath.Join(root, "note.txt")) {
		t.Fatal("note.txt should stay at the root")
	}
}

func TestRootDryRunFlagOverridesConfig(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "datesort.toml")
	if err := os.WriteFile(cfgPath, []byte("[organize]\ndry_run = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteFile(t, filepath.Join(root, "a.jpg"), testsupport.PlainJPEG(), time.Time{})

	out, _, err := runCLI(t, "-c", cfgPath, "--root", root, "--dry-run")
	if err != nil {
		t.Fatalf("datesort: %v", err)
	}
	requireContains(t, out, "planned")
	if !testsupport.Exists(filepath.Join(root, "a.jpg")) {
		t.Fatal("dry run moved a.jpg")
	}
}

func TestRootMissingDirectoryFails(t *testing.T) {
	if _, _, err := runCLI(t, "--root", filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestRootRejectsInvalidFlags(t *testing.T) {
	_, _, err := runCLI(t, "--root", t.TempDir(), "--log-level", "loud")
	if err == nil {
		t.Fatal("expected invalid log level to fail")
	}
	requireContains(t, err.Error(), "logging.level")

	if _, _, err := runCLI(t, "extra"); err == nil {
		t.Fatal("expected positional arguments to be rejected")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "conf", "datesort.toml")

	out, _, err := runCLI(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, "config", "init", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, "config", "init", "--overwrite", target); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, "-c", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# loaded from "+target)
	requireContains(t, out, "[organize]")
	requireContains(t, out, "level = 'info'")
}
