// Copyright (c) 2025 BVK Chaitanya

package envfile

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# backend of the dashboard
export BACKEND_URL="http://localhost:3000"
LISTEN_PORT = 8080
QUOTED='a b'
`
	vars, err := parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]string{
		{"BACKEND_URL", "http://localhost:3000"},
		{"LISTEN_PORT", "8080"},
		{"QUOTED", "a b"},
	}
	if len(vars) != len(want) {
		t.Fatalf("want %v, got %v", want, vars)
	}
	for i := range want {
		if vars[i] != want[i] {
			t.Fatalf("want %v, got %v", want[i], vars[i])
		}
	}

	if _, err := parse(strings.NewReader("NO_ASSIGNMENT")); err == nil {
		t.Fatalf("want error for a line without assignment")
	}
	if _, err := parse(strings.NewReader("1BAD=x")); err == nil {
		t.Fatalf("want error for an invalid name")
	}
}

func TestUpdateEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".test.env"), []byte("BACKEND_URL=http://a\nLISTEN_PORT=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("ENVTEST_LISTEN_PORT", "2")
	t.Setenv("ENVTEST_BACKEND_URL", "")

	if err := UpdateEnv(".test.env", SearchCurrentDir(false), VariableNamePrefix("ENVTEST_")); err != nil {
		t.Fatal(err)
	}
	if v := os.Getenv("ENVTEST_BACKEND_URL"); v != "http://a" {
		t.Fatalf("want value from file, got %q", v)
	}
	if v := os.Getenv("ENVTEST_LISTEN_PORT"); v != "2" {
		t.Fatalf("want existing value kept, got %q", v)
	}

	if err := UpdateEnv(".test.env", SearchCurrentDir(false), VariableNamePrefix("ENVTEST_"), OverwriteIfExists(true)); err != nil {
		t.Fatal(err)
	}
	if v := os.Getenv("ENVTEST_LISTEN_PORT"); v != "1" {
		t.Fatalf("want overwritten value, got %q", v)
	}

	if err := UpdateEnv("sub/.test.env"); err == nil {
		t.Fatalf("want error for a file name with separators")
	}
}

func TestSearchPaths(t *testing.T) {
	home, err := homeFile(".test.env")
	if err != nil {
		t.Skip(err)
	}
	dir := t.TempDir()
	t.Chdir(dir)

	fopts := options{searchCurrentDirectory: true, scanParentDirectories: true, searchHomeDirectoryLast: true}
	fpaths, err := searchPaths(".test.env", &fopts)
	if err != nil {
		t.Fatal(err)
	}
	if fpaths[0] != filepath.Join(dir, ".test.env") {
		t.Fatalf("want current dir first, got %v", fpaths)
	}
	if i := slices.Index(fpaths, home); i < 0 || slices.Contains(fpaths[i+1:], home) {
		t.Fatalf("home file must appear once, got %v", fpaths)
	}
}
