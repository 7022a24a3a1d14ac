// Package fence manages fences: named desktop panels, each backed by a folder of shortcuts under
// <Desktop>/Fences.
package fence

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/shortcut"
	"github.com/dixieflatline76/Fences/util/log"
)

var (
	// ErrNameTaken reports that another fence already uses the name, ignoring case.
	ErrNameTaken = errors.New("fence name already in use")
	// ErrInvalidName reports a name that cannot be used as a folder name.
	ErrInvalidName = errors.New("invalid fence name")
	// ErrNotFound reports an unknown fence.
	ErrNotFound = errors.New("fence not found")
)

// Fence sizing in logical units.
const (
	MinWidth      = 120.0
	MinHeight     = 100.0
	DefaultLeft   = 80.0
	DefaultTop    = 80.0
	DefaultWidth  = 420.0
	DefaultHeight = 260.0
)

// Store persists the fence list. *config.Config satisfies it.
type Store interface {
	Snapshot() []config.FenceConfig
	Update(fences []config.FenceConfig) error
}

// Links creates and reads the shortcuts stored in fence folders. *shortcut.Service satisfies it.
type Links interface {
	Create(d shortcut.Descriptor) error
	ResolveTarget(linkPath string) (string, bool)
}

// Manager owns the fence list and the fence folders.
type Manager struct {
	store Store
	links Links
	root  string

	mu sync.Mutex
}

// NewManager returns a manager whose fence folders live under root.
func NewManager(store Store, links Links, root string) *Manager {
	return &Manager{store: store, links: links, root: root}
}

// Root returns the folder holding every fence folder.
func (m *Manager) Root() string {
	return m.root
}

// Fences returns a copy of the fence list.
func (m *Manager) Fences() []config.FenceConfig {
	return m.store.Snapshot()
}

// Get returns the fence with the given name.
func (m *Manager) Get(name string) (config.FenceConfig, bool) {
	fences := m.store.Snapshot()
	if i := indexOf(fences, name); i >= 0 {
		return fences[i], true
	}
	return config.FenceConfig{}, false
}

// UniqueName returns the first free "Fence N".
func (m *Manager) UniqueName() string {
	return uniqueName(m.store.Snapshot())
}

func uniqueName(fences []config.FenceConfig) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s %d", config.DefaultFenceName, n)
		if indexOf(fences, name) < 0 {
			return name
		}
	}
}

// Create adds a fence at r, enlarged to the minimum size, and creates its folder. An empty name
// picks the next free default name.
func (m *Manager) Create(name string, r desktop.LogicalRect) (config.FenceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fences := m.store.Snapshot()
	name = strings.TrimSpace(name)
	if name == "" {
		name = uniqueName(fences)
	}
	if err := ValidateName(name); err != nil {
		return config.FenceConfig{}, err
	}
	if indexOf(fences, name) >= 0 {
		return config.FenceConfig{}, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}

	folder := filepath.Join(m.root, name)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return config.FenceConfig{}, fmt.Errorf("creating fence folder: %w", err)
	}

	f := config.NewFenceConfig(name, folder)
	f.Left, f.Top = r.X, r.Y
	f.Width = math.Max(MinWidth, r.Width)
	f.Height = math.Max(MinHeight, r.Height)

	if err := m.store.Update(append(fences, f)); err != nil {
		return config.FenceConfig{}, fmt.Errorf("saving fences: %w", err)
	}
	log.Printf("[Fence] created %q at %.0f,%.0f %.0fx%.0f", name, f.Left, f.Top, f.Width, f.Height)
	return f, nil
}

// CreateDefault adds a fence with the next free name at the default position and size.
func (m *Manager) CreateDefault() (config.FenceConfig, error) {
	return m.Create("", desktop.LogicalRect{X: DefaultLeft, Y: DefaultTop, Width: DefaultWidth, Height: DefaultHeight})
}

// ensure returns the named fence, creating it at left, top with the default size when missing.
func (m *Manager) ensure(name string, left, top float64) (config.FenceConfig, error) {
	if f, ok := m.Get(name); ok {
		if err := os.MkdirAll(f.FolderPath, 0755); err != nil {
			return f, fmt.Errorf("creating fence folder: %w", err)
		}
		return f, nil
	}
	return m.Create(name, desktop.LogicalRect{X: left, Y: top, Width: DefaultWidth, Height: DefaultHeight})
}

// Rename renames a fence and moves its folder. When a folder with the new name already exists the
// fence adopts it instead.
func (m *Manager) Rename(oldName, newName string) (config.FenceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	newName = strings.TrimSpace(newName)
	if err := ValidateName(newName); err != nil {
		return config.FenceConfig{}, err
	}

	fences := m.store.Snapshot()
	i := indexOf(fences, oldName)
	if i < 0 {
		return config.FenceConfig{}, fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if j := indexOf(fences, newName); j >= 0 && j != i {
		return config.FenceConfig{}, fmt.Errorf("%w: %s", ErrNameTaken, newName)
	}
	if fences[i].Name == newName {
		return fences[i], nil
	}

	f := &fences[i]
	newFolder := filepath.Join(m.root, newName)
	if !samePath(f.FolderPath, newFolder) {
		if err := os.MkdirAll(m.root, 0755); err != nil {
			return config.FenceConfig{}, fmt.Errorf("creating fences root: %w", err)
		}
		if _, err := os.Stat(newFolder); os.IsNotExist(err) {
			if err := os.Rename(f.FolderPath, newFolder); err != nil && !os.IsNotExist(err) {
				return config.FenceConfig{}, fmt.Errorf("moving fence folder: %w", err)
			}
		}
		if err := os.MkdirAll(newFolder, 0755); err != nil {
			return config.FenceConfig{}, fmt.Errorf("creating fence folder: %w", err)
		}
		f.FolderPath = newFolder
	}
	f.Name = newName

	if err := m.store.Update(fences); err != nil {
		return config.FenceConfig{}, fmt.Errorf("saving fences: %w", err)
	}
	log.Printf("[Fence] renamed %q to %q", oldName, newName)
	return *f, nil
}

// Delete removes a fence. Its folder and shortcuts are removed only when removeFolder is set.
func (m *Manager) Delete(name string, removeFolder bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fences := m.store.Snapshot()
	i := indexOf(fences, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	folder := fences[i].FolderPath
	fences = append(fences[:i], fences[i+1:]...)
	if err := m.store.Update(fences); err != nil {
		return fmt.Errorf("saving fences: %w", err)
	}

	if removeFolder && folder != "" {
		if err := os.RemoveAll(folder); err != nil {
			log.Printf("[Fence] removing folder of %q: %v", name, err)
		}
	}
	log.Printf("[Fence] deleted %q", name)
	return nil
}

// SetGeometry records a fence's position and size.
func (m *Manager) SetGeometry(name string, r desktop.LogicalRect) error {
	return m.modify(name, func(f *config.FenceConfig) {
		f.Left, f.Top = r.X, r.Y
		f.Width = math.Max(MinWidth, r.Width)
		f.Height = math.Max(MinHeight, r.Height)
	})
}

// SetCollapsed records whether a fence shows only its title bar.
func (m *Manager) SetCollapsed(name string, collapsed bool) error {
	return m.modify(name, func(f *config.FenceConfig) { f.Collapsed = collapsed })
}

// SetOpacity records a fence's background opacity, clamped to 0.2..1.
func (m *Manager) SetOpacity(name string, opacity float64) error {
	return m.modify(name, func(f *config.FenceConfig) { f.BackgroundOpacity = math.Max(0.2, math.Min(1, opacity)) })
}

func (m *Manager) modify(name string, fn func(*config.FenceConfig)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fences := m.store.Snapshot()
	i := indexOf(fences, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	fn(&fences[i])
	return m.store.Update(fences)
}

func indexOf(fences []config.FenceConfig, name string) int {
	for i, f := range fences {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}
