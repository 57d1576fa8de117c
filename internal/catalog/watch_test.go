package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReloaderKeepsPreviousCatalogOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, `
sections:
  - id: standard-packages
    products:
      - id: "1"
        name: Reloaded Pack
`)
	loader := NewLoader(path)
	live := NewLive(Default())
	r := NewReloader(loader, live, 0, zap.NewNop())

	require.True(t, r.Reload())
	p, _ := live.Lookup("1")
	require.Equal(t, "Reloaded Pack", p.Name)

	writeFile(t, dir, `
sections:
  - id: standard-packages
    products:
      - id: "1"
        price: "999.00"
`)
	require.False(t, r.Reload())
	p, _ = live.Lookup("1")
	require.Equal(t, "Reloaded Pack", p.Name)
	require.Equal(t, "45", p.Price.String())
}

func TestFileWatcherDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sections: []\n")

	changed := make(chan string, 4)
	w := NewFileWatcher([]string{path}, 10*time.Millisecond, func(p string) { changed <- p })
	w.Start()
	defer func() { require.NoError(t, w.Stop(context.Background())) }()

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	select {
	case p := <-changed:
		require.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("change not detected")
	}
}

func TestReloaderWithoutFileNeverPolls(t *testing.T) {
	r := NewReloader(NewLoader(""), NewLive(Default()), time.Second, zap.NewNop())
	require.Nil(t, r.watcher)
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop(context.Background()))
}
