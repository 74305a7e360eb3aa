// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argot/pkg/token"
)

type recorder struct {
	loud  int
	times []string
}

func (r *recorder) set(version bool) *Set {
	s := NewSet(version)
	s.Flag("-l, --loudly", "Say it loudly", func() { r.loud++ })
	s.Keyed("-n, --number-of-times", "times", "Repeat the greeting", func(v string) error {
		if _, err := strconv.Atoi(v); err != nil {
			return errors.New("not a number")
		}
		r.times = append(r.times, v)
		return nil
	})
	return s
}

func seq(args ...string) *token.Sequence {
	s := token.FromArgs(append([]string{"app", "hello"}, args...))
	s.Classify(true)
	return s
}

func TestBind(t *testing.T) {
	var r recorder
	s := seq("-l", "-n", "3", "bob")
	got, err := Binder{Set: r.set(false)}.Bind(s)
	if err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	want := map[string]any{"loudly": true, "number-of-times": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bind mismatch (-want +got):\n%s", diff)
	}
	if r.loud != 1 {
		t.Errorf("flag handler called %d times, want 1", r.loud)
	}
	if diff := cmp.Diff([]string{"3"}, r.times); diff != "" {
		t.Errorf("keyed handler values mismatch (-want +got):\n%s", diff)
	}
	// The keyed value is consumed; only "bob" is left for the signature.
	if diff := cmp.Diff([]int{5}, s.Unclassified()); diff != "" {
		t.Errorf("Unclassified mismatch (-want +got):\n%s", diff)
	}
}

func TestBindClusteredFlags(t *testing.T) {
	var a, b recorder
	clustered := seq("-ln", "3")
	separate := seq("-l", "-n", "3")
	gotA, errA := Binder{Set: a.set(false)}.Bind(clustered)
	gotB, errB := Binder{Set: b.set(false)}.Bind(separate)
	if errA != nil || errB != nil {
		t.Fatalf("Bind errors = %v, %v", errA, errB)
	}
	if diff := cmp.Diff(gotB, gotA); diff != "" {
		t.Errorf("clustered result differs (-separate +clustered):\n%s", diff)
	}
}

func TestBindInlineValue(t *testing.T) {
	var r recorder
	got, err := Binder{Set: r.set(false)}.Bind(seq("--number-of-times=7"))
	if err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	if got["number-of-times"] != "7" {
		t.Errorf("number-of-times = %v, want 7", got["number-of-times"])
	}
}

func TestBindKeyedConsumesDashValue(t *testing.T) {
	var r recorder
	s := NewSet(false)
	s.Keyed("-o, --offset", "n", "Offset", nil)
	s.Flag("-l, --loudly", "", func() { r.loud++ })
	got, err := Binder{Set: s}.Bind(seq("-o", "-l"))
	if err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	if got["offset"] != "-l" {
		t.Errorf("offset = %v, want -l", got["offset"])
	}
	if r.loud != 0 {
		t.Errorf("flag handler called for a consumed value")
	}
}

func TestBindKeyedConsumesHelpAsValue(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-o", "-h"}, "-h"},
		{[]string{"--offset", "--help"}, "--help"},
		{[]string{"-o", "-v"}, "-v"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			s := NewSet(true)
			s.Keyed("-o, --offset", "n", "Offset", nil)
			got, err := Binder{Set: s}.Bind(seq(tt.args...))
			if err != nil {
				t.Fatalf("Bind error = %v", err)
			}
			if diff := cmp.Diff(map[string]any{"offset": tt.want}, got); diff != "" {
				t.Errorf("Bind mismatch (-want +got):\n%s", diff)
			}
		})
	}

	s := NewSet(false)
	s.Keyed("-o, --offset", "n", "Offset", nil)
	if _, err := (Binder{Set: s}).Bind(seq("-o=1", "-h")); !errors.Is(err, ErrHelp) {
		t.Errorf("Bind with inline value then -h = %v, want ErrHelp", err)
	}
}

func TestBindNegativeNumberValue(t *testing.T) {
	s := NewSet(false)
	s.Keyed("-o, --offset", "n", "Offset", nil)
	got, err := Binder{Set: s}.Bind(seq("-o", "-10"))
	if err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	if got["offset"] != "-10" {
		t.Errorf("offset = %v, want -10", got["offset"])
	}
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, err error)
		wantMsg string
	}{
		{
			name:    "unknown option",
			args:    []string{"-z"},
			wantMsg: "unknown option: -z",
			check: func(t *testing.T, err error) {
				var e *UnknownOptionError
				if !errors.As(err, &e) || e.Option != "-z" {
					t.Errorf("error = %#v, want UnknownOptionError for -z", err)
				}
			},
		},
		{
			name:    "unknown option after valid",
			args:    []string{"-l", "--zap"},
			wantMsg: "unknown option: --zap",
			check: func(t *testing.T, err error) {
				var e *UnknownOptionError
				if !errors.As(err, &e) {
					t.Errorf("error = %#v, want UnknownOptionError", err)
				}
			},
		},
		{
			name:    "missing value",
			args:    []string{"-n"},
			wantMsg: "option -n requires a value <times>",
			check: func(t *testing.T, err error) {
				var e *MissingValueError
				if !errors.As(err, &e) {
					t.Errorf("error = %#v, want MissingValueError", err)
				}
			},
		},
		{
			name:    "missing value before terminator",
			args:    []string{"--number-of-times", "--", "3"},
			wantMsg: "requires a value",
			check: func(t *testing.T, err error) {
				var e *MissingValueError
				if !errors.As(err, &e) {
					t.Errorf("error = %#v, want MissingValueError", err)
				}
			},
		},
		{
			name:    "handler rejects value",
			args:    []string{"-n", "lots"},
			wantMsg: `invalid value "lots" for option -n: not a number`,
			check: func(t *testing.T, err error) {
				var e *ValueError
				if !errors.As(err, &e) || e.Value != "lots" {
					t.Errorf("error = %#v, want ValueError for lots", err)
				}
			},
		},
		{
			name:    "flag with inline value",
			args:    []string{"--loudly=yes"},
			wantMsg: "does not take a value",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, errFlagValue) {
					t.Errorf("error = %#v, want errFlagValue", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r recorder
			_, err := Binder{Set: r.set(false)}.Bind(seq(tt.args...))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			tt.check(t, err)
		})
	}
}

func TestBindImplicitOptions(t *testing.T) {
	tests := []struct {
		name    string
		version bool
		args    []string
		want    error
	}{
		{"short help", false, []string{"-h"}, ErrHelp},
		{"long help wins over unknown", false, []string{"-z", "--help"}, ErrHelp},
		{"help after keyed", true, []string{"-n", "3", "-h"}, ErrHelp},
		{"version when reserved", true, []string{"--version"}, ErrVersion},
		{"short version when reserved", true, []string{"-v"}, ErrVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r recorder
			_, err := Binder{Set: r.set(tt.version)}.Bind(seq(tt.args...))
			if !errors.Is(err, tt.want) {
				t.Errorf("Bind error = %v, want %v", err, tt.want)
			}
			if r.loud != 0 || len(r.times) != 0 {
				t.Errorf("handlers ran before implicit option short-circuit")
			}
		})
	}

	var r recorder
	_, err := Binder{Set: r.set(false)}.Bind(seq("-v"))
	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Errorf("-v without version = %v, want UnknownOptionError", err)
	}
}

func TestBindDuplicates(t *testing.T) {
	var r recorder
	got, err := Binder{Set: r.set(false)}.Bind(seq("-n", "1", "--number-of-times", "2"))
	if err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	if got["number-of-times"] != "2" {
		t.Errorf("last write should win, got %v", got["number-of-times"])
	}

	var strict recorder
	_, err = Binder{Set: strict.set(false), RejectDuplicates: true}.Bind(seq("-n", "1", "--number-of-times", "2"))
	var dup *DuplicateOptionError
	if !errors.As(err, &dup) || dup.Option != "--number-of-times" {
		t.Errorf("error = %v, want DuplicateOptionError for --number-of-times", err)
	}
}

func TestSetAddPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *Set)
	}{
		{"no aliases", func(s *Set) { s.Add(Spec{}) }},
		{"malformed alias", func(s *Set) { s.Flag("loud", "", nil) }},
		{"long short alias", func(s *Set) { s.Flag("-ab", "", nil) }},
		{"digit short alias", func(s *Set) { s.Flag("-5", "", nil) }},
		{"duplicate alias", func(s *Set) {
			s.Flag("-l, --loudly", "", nil)
			s.Flag("--quiet, -l", "", nil)
		}},
		{"reserved help", func(s *Set) { s.Flag("-h", "", nil) }},
		{"reserved version", func(s *Set) { s.Flag("--version", "", nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn(NewSet(true))
		})
	}
}

func TestVersionAliasFreeWithoutVersion(t *testing.T) {
	s := NewSet(false)
	s.Flag("-v, --verbose", "Verbose output", nil)
	if _, ok := s.Lookup("-v"); !ok {
		t.Error("expected -v to be declarable when version is not reserved")
	}
}

func TestSpecNameAndLabel(t *testing.T) {
	tests := []struct {
		spec      Spec
		wantName  string
		wantLabel string
	}{
		{Spec{Aliases: []string{"-l", "--loudly"}}, "loudly", "-l, --loudly"},
		{Spec{Aliases: []string{"-q"}}, "q", "-q"},
		{Spec{Aliases: []string{"-n", "--number-of-times"}, Kind: Keyed, ValueName: "times"}, "number-of-times", "-n, --number-of-times <times>"},
	}
	for _, tt := range tests {
		if got := tt.spec.Name(); got != tt.wantName {
			t.Errorf("Name() = %q, want %q", got, tt.wantName)
		}
		if got := tt.spec.Label(); got != tt.wantLabel {
			t.Errorf("Label() = %q, want %q", got, tt.wantLabel)
		}
	}
}

func TestKeyedDefaultValueName(t *testing.T) {
	s := NewSet(false)
	s.Keyed("--out", "", "Output", nil)
	spec, _ := s.Lookup("--out")
	if spec.ValueName != "value" {
		t.Errorf("ValueName = %q, want value", spec.ValueName)
	}
}
