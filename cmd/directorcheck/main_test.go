package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_RepositoryDirector(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, "../../data/track/director.yaml", 25, true); err != nil {
		t.Fatalf("run failed: %v\n%s", err, out.String())
	}
	text := out.String()
	if !strings.Contains(text, "waterfall") {
		t.Errorf("expected waterfall row in output:\n%s", text)
	}
	if !strings.Contains(text, "与内置导演表一致") {
		t.Errorf("expected comparison summary:\n%s", text)
	}
}

func TestRun_Mismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "director.yaml")
	yaml := "base:\n  width: 30\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(&out, path, 5, false); err != nil {
		t.Fatalf("run without compare failed: %v", err)
	}
	if err := run(&out, path, 5, true); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestRun_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "director.yaml")
	if err := os.WriteFile(path, []byte("base:\n  width: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(&out, path, 5, false); err == nil {
		t.Error("expected validation error")
	}
}
