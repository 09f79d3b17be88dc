// Copyright (c) 2025 BVK Chaitanya

// Package envfile loads `NAME=value` assignments from a dotfile into the
// process environment.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strings"
)

type options struct {
	variableNamePrefix string

	searchCurrentDirectory  bool
	scanParentDirectories   bool
	searchHomeDirectoryLast bool

	overwriteIfExists bool
}

// UpdateEnv updates the process environment with the values read from the
// first env file found. The user's home directory is searched by default.
// Blank lines and lines starting with # are skipped. Values may be wrapped in
// single or double quotes, which are removed. No other escaping or expansion
// is performed.
func UpdateEnv(filename string, opts ...Option) error {
	if strings.ContainsRune(filename, os.PathSeparator) {
		return fmt.Errorf("file name contains path separator: %w", os.ErrInvalid)
	}
	var fopts options
	for _, v := range opts {
		if err := v.apply(&fopts); err != nil {
			return err
		}
	}

	fpaths, err := searchPaths(filename, &fopts)
	if err != nil {
		return err
	}
	for _, fpath := range fpaths {
		fp, err := os.Open(fpath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		defer fp.Close()

		vars, err := parse(fp)
		if err != nil {
			return fmt.Errorf("%s: %w", fpath, err)
		}
		for _, kv := range vars {
			key := fopts.variableNamePrefix + kv[0]
			if len(os.Getenv(key)) != 0 && !fopts.overwriteIfExists {
				continue
			}
			if err := os.Setenv(key, kv[1]); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func homeFile(filename string) (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	if len(u.HomeDir) == 0 {
		return "", fmt.Errorf("could not determine current user's home directory")
	}
	return filepath.Join(u.HomeDir, filename), nil
}

func searchPaths(filename string, fopts *options) ([]string, error) {
	if !fopts.searchCurrentDirectory {
		fpath, err := homeFile(filename)
		if err != nil {
			return nil, err
		}
		return []string{fpath}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	fpaths := []string{filepath.Join(cwd, filename)}
	if fopts.scanParentDirectories {
		for last, dir := cwd, filepath.Dir(cwd); dir != last; last, dir = dir, filepath.Dir(dir) {
			fpaths = append(fpaths, filepath.Join(dir, filename))
		}
	}
	if fopts.searchHomeDirectoryLast {
		fpath, err := homeFile(filename)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(fpaths, fpath) {
			fpaths = append(fpaths, fpath)
		}
	}
	return fpaths, nil
}

func parse(r io.Reader) ([][2]string, error) {
	var vars [][2]string
	scanner := bufio.NewScanner(r)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid/unrecognized variable assignment on line %d: %w", i, os.ErrInvalid)
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		if !nameRe.MatchString(key) {
			return nil, fmt.Errorf("invalid environment variable name %q on line %d: %w", key, i, os.ErrInvalid)
		}
		value = strings.TrimSpace(value)
		if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
			value = value[1 : n-1]
		}
		vars = append(vars, [2]string{key, value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}
