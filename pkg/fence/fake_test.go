package fence

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/shortcut"
)

type memStore struct {
	mu        sync.Mutex
	fences    []config.FenceConfig
	updates   int
	updateErr error
}

func (s *memStore) Snapshot() []config.FenceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]config.FenceConfig(nil), s.fences...)
}

func (s *memStore) Update(fences []config.FenceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	s.fences = append([]config.FenceConfig(nil), fences...)
	return nil
}

// fakeLinks writes the target into the link file instead of a shell link.
type fakeLinks struct {
	created   []shortcut.Descriptor
	targets   map[string]string
	createErr error
}

func newFakeLinks() *fakeLinks {
	return &fakeLinks{targets: map[string]string{}}
}

func (l *fakeLinks) Create(d shortcut.Descriptor) error {
	if l.createErr != nil {
		return l.createErr
	}
	if err := os.WriteFile(d.LinkPath, []byte(d.Target), 0644); err != nil {
		return err
	}
	l.created = append(l.created, d)
	return nil
}

func (l *fakeLinks) ResolveTarget(linkPath string) (string, bool) {
	if t, ok := l.targets[linkPath]; ok {
		return t, true
	}
	data, err := os.ReadFile(linkPath)
	if err != nil || shortcut.IsVirtual(string(data)) {
		return "", false
	}
	return string(data), true
}

var errDisk = errors.New("disk full")

func newTestManager(t *testing.T) (*Manager, *memStore, *fakeLinks) {
	t.Helper()
	store := &memStore{}
	links := newFakeLinks()
	return NewManager(store, links, filepath.Join(t.TempDir(), "Fences")), store, links
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}
