// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	entries := []Entry{
		{Profile: "html", Builder: "html", Skipped: false, ExitCode: 0, Expanded: 3, Duration: 1200 * time.Millisecond, StartedAt: started},
		{Profile: "html", Builder: "html", Skipped: true, StartedAt: started.Add(time.Minute)},
		{Profile: "pdf", Builder: "latex", ExitCode: 1, Duration: 400 * time.Millisecond, StartedAt: started.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(e))
	}

	got, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "pdf", got[0].Profile)
	assert.Equal(t, 1, got[0].ExitCode)
	assert.True(t, got[1].Skipped)
	assert.Equal(t, "html", got[2].Profile)
	assert.Equal(t, 3, got[2].Expanded)
	assert.Equal(t, 1200*time.Millisecond, got[2].Duration)
	assert.Equal(t, started, got[2].StartedAt.UTC())
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Entry{Profile: "html", Builder: "html", StartedAt: time.Now()}))
	}

	got, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecentEmpty(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, []Entry{
		{Profile: "html", Builder: "html", Skipped: true, StartedAt: time.Now()},
		{Profile: "pdf", Builder: "latex", ExitCode: 1, StartedAt: time.Now()},
	})

	out := buf.String()
	assert.Contains(t, out, "PROFILE")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "failed")
}
