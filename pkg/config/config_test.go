// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "argot.toml")
	writeFile(t, want, "debug = true\n")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find error = %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFindPrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "argot.toml"), "")
	want := filepath.Join(root, "sub", "argot.yaml")
	writeFile(t, want, "")

	got, err := Find(filepath.Join(root, "sub"))
	if err != nil {
		t.Fatalf("Find error = %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFindMissing(t *testing.T) {
	if _, err := Find(filepath.Join(string(filepath.Separator), "definitely", "not", "here")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Find error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadFromDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "argot.yml")
	writeFile(t, path, "debug: true\n")
	loc, err := LoadFromDir(filepath.Join(root, "x"))
	if err != nil {
		t.Fatalf("LoadFromDir error = %v", err)
	}
	if loc == nil || loc.Path != path || !loc.Config.Debug {
		t.Errorf("LoadFromDir = %+v, want debug config from %s", loc, path)
	}
}

func TestLoad(t *testing.T) {
	want := &Config{
		Color:                  ColorNever,
		Debug:                  true,
		StrictQuotes:           true,
		RejectDuplicateOptions: true,
		Aliases:                map[string]string{"greet": "hello --loudly"},
	}
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "argot.toml",
			content: `color = "never"
debug = true
strict_quotes = true
reject_duplicate_options = true

[aliases]
greet = "hello --loudly"
`,
		},
		{
			name: "yaml",
			file: "argot.yaml",
			content: `color: never
debug: true
strict_quotes: true
reject_duplicate_options: true
aliases:
  greet: hello --loudly
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad color", "argot.toml", `color = "sometimes"`, "invalid color"},
		{"bad alias name", "argot.toml", "[aliases]\n\"-x\" = \"hello\"\n", "invalid alias name"},
		{"empty expansion", "argot.yml", "aliases:\n  greet: \"  \"\n", "empty expansion"},
		{"bad toml", "argot.toml", "color = ", "failed to parse"},
		{"bad yaml", "argot.yaml", "color: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := &Config{Color: ColorAlways, Aliases: map[string]string{"b": "eat bagel", "a": "order donut"}}
	for _, name := range []string{"argot.toml", "argot.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := Save(path, cfg); err != nil {
				t.Fatalf("Save error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load error = %v", err)
			}
			if diff := cmp.Diff(cfg, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"a", "b"}, got.AliasNames()); diff != "" {
				t.Errorf("AliasNames mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "argot.toml"), &Config{Color: "blue"})
	if err == nil {
		t.Error("expected error for invalid color")
	}
}
