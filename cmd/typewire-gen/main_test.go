package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scott-cotton/cli"
)

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "list.json")
	schema := `
	{"type": "record", "name": "LongList", "fields": [
		{"name": "value", "type": "long"},
		{"name": "next", "type": ["null", "LongList"]}]}`
	if err := os.WriteFile(in, []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "long_list.go")

	cfg := &Config{Input: in, Output: out, Namespace: "models"}
	if err := run(cfg, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	d, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(d)
	for _, want := range []string{
		"// Code generated by typewire-gen. DO NOT EDIT.",
		"package models",
		"type LongList struct {",
		"type LongListUnion0 struct {",
		"func EncodeLongList(",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(in, []byte(`{"type": "record", "name": "R"}`), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "bad_gen.go")

	cfg := &Config{Input: in, Output: out}
	if err := run(cfg, nil, nil); err == nil {
		t.Fatal("run on malformed schema did not fail")
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed run left partial output")
	}
}

func TestRunRejectsArgs(t *testing.T) {
	err := run(&Config{}, nil, []string{"extra"})
	if !errors.Is(err, cli.ErrUsage) {
		t.Errorf("got %v, want ErrUsage", err)
	}
}

func TestDerivedPrefix(t *testing.T) {
	cases := map[string]string{
		"long_list.go":      "LongListUnion",
		"point.json.go":     "PointUnion",
		"out/wire-types.go": "WireTypesUnion",
	}
	for in, want := range cases {
		if got := derivedPrefix(in); got != want {
			t.Errorf("derivedPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
