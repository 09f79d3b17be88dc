// Copyright (c) 2025 BVK Chaitanya

// Package store keeps snapshots of benchmark results in a key-value database
// so runs can be compared after they are deleted from the backend.
package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/kvutil"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvkgo/kv"
	"github.com/google/uuid"
)

// Keyspace is the key prefix for all snapshots.
const Keyspace = "/snapshots"

// Snapshot is a benchmark with the asset prices and the aggregated state
// fetched for one dates interval.
type Snapshot struct {
	ID        string
	Name      string
	CreatedAt time.Time

	Benchmark *gobs.Benchmark
	Interval  *timerange.Range

	Prices []gobs.Pair
	State  *format.ApplicationState
}

func (s *Snapshot) Check() error {
	if s.Benchmark == nil {
		return fmt.Errorf("snapshot must hold a benchmark")
	}
	if err := s.Benchmark.Check(); err != nil {
		return err
	}
	if s.Interval != nil {
		if err := s.Interval.Check(); err != nil {
			return err
		}
	}
	return nil
}

type Store struct {
	db kv.Database
}

func New(db kv.Database) *Store {
	return &Store{db: db}
}

func snapshotKey(id string) string {
	return path.Join(Keyspace, id)
}

// Save stores a new snapshot. Snapshot id and creation time are assigned when
// they are empty.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.Check(); err != nil {
		return err
	}
	if len(snap.ID) == 0 {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	if strings.ContainsRune(snap.ID, '/') {
		return fmt.Errorf("snapshot id %q cannot contain a slash: %w", snap.ID, os.ErrInvalid)
	}
	if len(snap.Name) == 0 {
		snap.Name = snap.Benchmark.ID
	}
	return kv.WithReadWriter(ctx, s.db, func(ctx context.Context, rw kv.ReadWriter) error {
		return kvutil.Set(ctx, rw, snapshotKey(snap.ID), snap)
	})
}

func (s *Store) Get(ctx context.Context, id string) (snap *Snapshot, err error) {
	err = kv.WithReader(ctx, s.db, func(ctx context.Context, r kv.Reader) error {
		snap, err = kvutil.Get[Snapshot](ctx, r, snapshotKey(id))
		return err
	})
	return snap, err
}

// List returns all snapshots ordered by their creation time.
func (s *Store) List(ctx context.Context) ([]*Snapshot, error) {
	var snaps []*Snapshot
	collect := func(ctx context.Context, _ string, snap *Snapshot) error {
		snaps = append(snaps, snap)
		return nil
	}
	begin, end := kvutil.PathRange(Keyspace)
	if err := kv.WithReader(ctx, s.db, func(ctx context.Context, r kv.Reader) error {
		return kvutil.Ascend(ctx, r, begin, end, collect)
	}); err != nil {
		return nil, fmt.Errorf("could not list snapshots: %w", err)
	}
	slices.SortStableFunc(snaps, func(a, b *Snapshot) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return snaps, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return kv.WithReadWriter(ctx, s.db, func(ctx context.Context, rw kv.ReadWriter) error {
		if _, err := rw.Get(ctx, snapshotKey(id)); err != nil {
			return fmt.Errorf("could not find snapshot %q: %w", id, err)
		}
		return rw.Delete(ctx, snapshotKey(id))
	})
}

// Export writes all snapshots to w and returns the number of snapshots.
func (s *Store) Export(ctx context.Context, w io.Writer) (n int, err error) {
	err = kv.WithReader(ctx, s.db, func(ctx context.Context, r kv.Reader) error {
		n, err = kvutil.Export(ctx, r, Keyspace, w)
		return err
	})
	return n, err
}

// Import reads snapshots written by Export. Existing snapshots with the same
// ids are overwritten.
func (s *Store) Import(ctx context.Context, r io.Reader) (n int, err error) {
	err = kv.WithReadWriter(ctx, s.db, func(ctx context.Context, rw kv.ReadWriter) error {
		n, err = kvutil.Import(ctx, r, Keyspace, rw)
		return err
	})
	return n, err
}
