package solver

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSnapshotRoundTrip(t *testing.T) {
	sv := New(DefaultConfig(), zaptest.NewLogger(t))
	sv.tt.Store(11, 1, BoundExact, 4)
	sv.tt.Store(12, -1, BoundLower, 7)
	sv.tt.Store(13, 0, BoundUpper, 2)

	var buf bytes.Buffer
	require.NoError(t, sv.SaveSnapshot(&buf, "test-run"))

	fresh := New(DefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, fresh.LoadSnapshot(&buf))
	require.Equal(t, 3, fresh.tt.Len())

	e, ok := fresh.tt.Probe(12)
	require.True(t, ok)
	require.Equal(t, int8(-1), e.Value)
	require.Equal(t, BoundLower, e.Bound)
	require.Equal(t, int32(7), e.Depth)
}

func TestSnapshotRejectsCatalogMismatch(t *testing.T) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	require.NoError(t, enc.Encode(snapshotHeader{
		Magic:       snapshotMagic,
		Version:     snapshotVersion,
		CatalogHash: "deadbeef",
		RunID:       "stale-run",
		Entries:     0,
	}))

	sv := New(DefaultConfig(), zaptest.NewLogger(t))
	err := sv.LoadSnapshot(&buf)
	require.ErrorIs(t, err, ErrCatalogMismatch)
	require.Zero(t, sv.tt.Len())
}

func TestSnapshotRejectsWrongMagicAndVersion(t *testing.T) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	require.NoError(t, enc.Encode(snapshotHeader{Magic: "NOPE", Version: snapshotVersion}))
	sv := New(DefaultConfig(), zaptest.NewLogger(t))
	require.Error(t, sv.LoadSnapshot(&buf))

	buf.Reset()
	enc = gob.NewEncoder(&buf)
	require.NoError(t, enc.Encode(snapshotHeader{Magic: snapshotMagic, Version: 99}))
	require.Error(t, sv.LoadSnapshot(&buf))
}
