/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenref/load"
)

func TestWatcher_OnChange(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "tokens.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(watched, []byte(`{}`), 0o644))

	w, err := load.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Watch(watched))

	changed := make(chan string, 8)
	w.OnChange(func(path string) { changed <- path })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(other, []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte(`{"a": "1"}`), 0o644))

	select {
	case path := <-changed:
		require.Equal(t, watched, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event for the watched file")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
