// Package startup registers the application to run when the user signs in.
package startup

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/util/log"
)

// ErrUnsupported is returned where there is no Run key.
var ErrUnsupported = errors.New("run at startup is not supported on this platform")

// ValueName is the name of the Run key value.
const ValueName = config.AppName

// Store reads and writes values of the per-user Run key.
type Store interface {
	Value(name string) (string, bool, error)
	SetValue(name, value string) error
	DeleteValue(name string) error
}

// Registration manages the Run key entry.
type Registration struct {
	store Store
}

// New returns a registration backed by HKCU\Software\Microsoft\Windows\CurrentVersion\Run.
func New() *Registration {
	return &Registration{store: newStore()}
}

// NewWithStore returns a registration backed by s.
func NewWithStore(s Store) *Registration {
	return &Registration{store: s}
}

// Enabled reports whether a Run entry exists.
func (r *Registration) Enabled() bool {
	_, ok, err := r.store.Value(ValueName)
	if err != nil {
		log.Printf("[Startup] reading run entry: %v", err)
		return false
	}
	return ok
}

// Points reports whether the Run entry launches exe.
func (r *Registration) Points(exe string) bool {
	v, ok, err := r.store.Value(ValueName)
	if err != nil || !ok {
		return false
	}
	return strings.EqualFold(filepath.Clean(unquote(v)), filepath.Clean(exe))
}

// Enable registers exe to run at sign-in, replacing any earlier entry.
func (r *Registration) Enable(exe string) error {
	if strings.TrimSpace(exe) == "" {
		return errors.New("enabling run at startup: empty executable path")
	}
	if err := r.store.SetValue(ValueName, quote(exe)); err != nil {
		return fmt.Errorf("enabling run at startup: %w", err)
	}
	log.Printf("[Startup] registered %s", exe)
	return nil
}

// Disable removes the Run entry. A missing entry is not an error.
func (r *Registration) Disable() error {
	if err := r.store.DeleteValue(ValueName); err != nil {
		return fmt.Errorf("disabling run at startup: %w", err)
	}
	log.Printf("[Startup] unregistered")
	return nil
}

// Sync makes the Run entry match the preference, repointing a stale entry at exe.
func (r *Registration) Sync(enabled bool, exe string) error {
	switch {
	case !enabled && r.Enabled():
		return r.Disable()
	case enabled && !r.Points(exe):
		return r.Enable(exe)
	}
	return nil
}

func quote(p string) string {
	return `"` + p + `"`
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, `"`) {
		if end := strings.Index(v[1:], `"`); end >= 0 {
			return v[1 : end+1]
		}
	}
	return v
}
