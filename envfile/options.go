// Copyright (c) 2025 BVK Chaitanya

package envfile

import (
	"fmt"
	"os"
	"regexp"
)

// Option customizes the env file search and how values are applied.
type Option interface {
	apply(*options) error
}

type optionFunc func(*options) error

func (v optionFunc) apply(opts *options) error {
	return v(opts)
}

// nameRe matches valid variable names and name prefixes.
var nameRe = regexp.MustCompile("^[a-zA-Z][0-9a-zA-Z_]*$")

// SearchCurrentDir looks for the env file in the working directory instead of
// the home directory. With searchParentDirs, ancestors of the working
// directory are searched too, nearest first.
func SearchCurrentDir(searchParentDirs bool) Option {
	return optionFunc(func(opts *options) error {
		opts.searchCurrentDirectory = true
		opts.scanParentDirectories = searchParentDirs
		return nil
	})
}

// SearchHomeDirLast adds the home directory as the last place to look when
// the working directory is searched.
func SearchHomeDirLast() Option {
	return optionFunc(func(opts *options) error {
		opts.searchHomeDirectoryLast = true
		return nil
	})
}

// VariableNamePrefix is prepended to every name read from the file, so that
// `BACKEND_URL=x` with prefix `TRADEDASH_` sets `TRADEDASH_BACKEND_URL`.
func VariableNamePrefix(prefix string) Option {
	return optionFunc(func(opts *options) error {
		if !nameRe.MatchString(prefix) {
			return fmt.Errorf("variable name prefix %q has invalid characters: %w", prefix, os.ErrInvalid)
		}
		opts.variableNamePrefix = prefix
		return nil
	})
}

// OverwriteIfExists replaces variables that already have a non-empty value.
// They are kept by default.
func OverwriteIfExists(overwrite bool) Option {
	return optionFunc(func(opts *options) error {
		opts.overwriteIfExists = overwrite
		return nil
	})
}
