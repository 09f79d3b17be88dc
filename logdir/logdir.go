// Copyright (c) 2024 BVK Chaitanya

/*
Package logdir implements a log writer that limits log file(s) size to a fixed
size in a given directory.
*/
package logdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Options struct {
	// ReuseInterval is the time interval during which a new writer appends to
	// an existing log file instead of creating a new one. This keeps a
	// crash-looping server from filling up the directory.
	ReuseInterval time.Duration

	// MaxFileSize is the size limit for a log file in bytes.
	MaxFileSize int64

	// FileMode holds the permissions for new log files.
	FileMode os.FileMode
}

func (v *Options) setDefaults() {
	if v.ReuseInterval == 0 {
		v.ReuseInterval = time.Hour
	}
	if v.MaxFileSize == 0 {
		v.MaxFileSize = 100 * 1024 * 1024
	}
	if v.FileMode == 0 {
		v.FileMode = 0600
	}
}

func (v *Options) Check() error {
	if v.ReuseInterval < 0 {
		return fmt.Errorf("reuse interval cannot be negative")
	}
	if v.MaxFileSize < 0 {
		return fmt.Errorf("max file size cannot be negative")
	}
	return nil
}

// Writer appends to a log file and switches to a new file when the size limit
// is reached. It is safe for concurrent use.
type Writer struct {
	opts Options

	dirname, logname string

	mu   sync.Mutex
	fp   *os.File
	size int64
}

func New(dirname, logname string, opts *Options) (*Writer, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	w := &Writer{
		opts:    *opts,
		dirname: dirname,
		logname: logname,
	}
	fp, size, err := w.openFile(opts.ReuseInterval)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	w.fp, w.size = fp, size
	return w, nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fp == nil {
		return nil
	}
	err := w.fp.Close()
	w.fp = nil
	return err
}

// Name returns the path of the current log file.
func (w *Writer) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fp == nil {
		return ""
	}
	return w.fp.Name()
}

func fileName(logname string, at time.Time, truncate time.Duration) string {
	at = at.UTC()
	if truncate != 0 {
		at = at.Truncate(truncate)
	}
	return fmt.Sprintf("%s-%s.log", logname, at.Format("20060102-150405.000000000"))
}

func (w *Writer) openFile(truncate time.Duration) (*os.File, int64, error) {
	filename := fileName(w.logname, time.Now(), truncate)
	fp, err := os.OpenFile(filepath.Join(w.dirname, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, w.opts.FileMode)
	if err != nil {
		return nil, -1, fmt.Errorf("could not open/create log file: %w", err)
	}
	finfo, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, -1, fmt.Errorf("could not get file size: %w", err)
	}
	if size := finfo.Size(); size < w.opts.MaxFileSize || truncate == 0 {
		return fp, size, nil
	}
	fp.Close()
	return w.openFile(0)
}

func (w *Writer) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fp == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(data)) > w.opts.MaxFileSize {
		fp, size, err := w.openFile(0)
		if err != nil {
			return 0, fmt.Errorf("could not open new log file: %w", err)
		}
		w.fp.Close()
		w.fp, w.size = fp, size
	}
	n, err := w.fp.Write(data)
	w.size += int64(n)
	return n, err
}
