package solver

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/dipplestix/3cbsolver/internal/game"
)

// Optional transposition-table persistence. A snapshot is a versioned
// header plus the table records; it is never required for correctness.
// Entries solved under a different catalog are meaningless, so loading
// verifies the embedded catalog hash and discards on mismatch.

// ErrCatalogMismatch reports a snapshot built against a different card
// catalog.
var ErrCatalogMismatch = errors.New("snapshot catalog mismatch")

const (
	snapshotMagic   = "3CBTT"
	snapshotVersion = 1
)

type snapshotHeader struct {
	Magic       string
	Version     int
	CatalogHash string
	RunID       string
	Entries     int
}

type snapshotEntry struct {
	Key   uint64
	Value int8
	Bound uint8
	Depth int32
}

// SaveSnapshot writes the solver's transposition table.
func (sv *Solver) SaveSnapshot(w io.Writer, runID string) error {
	enc := gob.NewEncoder(w)
	header := snapshotHeader{
		Magic:       snapshotMagic,
		Version:     snapshotVersion,
		CatalogHash: game.CatalogHash(),
		RunID:       runID,
		Entries:     sv.tt.Len(),
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("encode snapshot header: %w", err)
	}
	var encodeErr error
	sv.tt.each(func(key uint64, e Entry) {
		if encodeErr != nil {
			return
		}
		encodeErr = enc.Encode(snapshotEntry{
			Key:   key,
			Value: e.Value,
			Bound: uint8(e.Bound),
			Depth: e.Depth,
		})
	})
	return encodeErr
}

// LoadSnapshot merges a snapshot into the solver's transposition
// table. Snapshots from a different catalog are rejected whole with
// ErrCatalogMismatch; the caller drops them and continues cold.
func (sv *Solver) LoadSnapshot(r io.Reader) error {
	dec := gob.NewDecoder(r)
	var header snapshotHeader
	if err := dec.Decode(&header); err != nil {
		return fmt.Errorf("decode snapshot header: %w", err)
	}
	if header.Magic != snapshotMagic {
		return fmt.Errorf("not a transposition snapshot (magic %q)", header.Magic)
	}
	if header.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", header.Version)
	}
	if header.CatalogHash != game.CatalogHash() {
		return fmt.Errorf("%w: snapshot %s", ErrCatalogMismatch, header.RunID)
	}
	for i := 0; i < header.Entries; i++ {
		var e snapshotEntry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("decode snapshot entry %d: %w", i, err)
		}
		sv.tt.Store(e.Key, int(e.Value), Bound(e.Bound), int(e.Depth))
	}
	return nil
}
