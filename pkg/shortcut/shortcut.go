// Package shortcut creates and reads shell link (.lnk) files, including links bound to virtual shell
// namespace objects that have no filesystem path.
package shortcut

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Fences/util/log"
	"github.com/google/uuid"
)

// ErrUnavailable reports that the shell link object could not be created, saved or loaded.
var ErrUnavailable = errors.New("shortcut unavailable")

// Ext is the file extension of shell links.
const Ext = ".lnk"

// Descriptor describes one shell link.
type Descriptor struct {
	LinkPath string
	// Target is a filesystem path or a virtual token such as "::{CLSID}" or "shell:ControlPanelFolder".
	Target           string
	Arguments        string
	WorkingDirectory string
	IconLocation     string
	IconIndex        int32
	Description      string
}

// IsVirtual reports whether target names a shell namespace object rather than a file.
func IsVirtual(target string) bool {
	t := strings.TrimSpace(target)
	return strings.HasPrefix(t, "::{") || (len(t) >= 6 && strings.EqualFold(t[:6], "shell:"))
}

// Backend stores link objects. The Windows backend drives the shell's IShellLink object.
type Backend interface {
	Save(path string, d Descriptor) error
	Load(path string) (Descriptor, error)
}

// Service creates and resolves shell links.
type Service struct {
	backend Backend
}

// NewService returns a Service bound to the platform's link backend.
func NewService() *Service {
	return &Service{backend: newNativeBackend()}
}

// NewServiceWithBackend returns a Service that stores links through b.
func NewServiceWithBackend(b Backend) *Service {
	return &Service{backend: b}
}

// Create writes the link described by d. The file appears at d.LinkPath only once it is complete.
func (s *Service) Create(d Descriptor) error {
	d.Target = strings.TrimSpace(d.Target)
	if d.LinkPath == "" || d.Target == "" {
		return fmt.Errorf("%w: link path and target are required", ErrUnavailable)
	}
	if !IsVirtual(d.Target) && d.WorkingDirectory == "" {
		d.WorkingDirectory = filepath.Dir(d.Target)
	}

	if err := os.MkdirAll(filepath.Dir(d.LinkPath), 0755); err != nil {
		return fmt.Errorf("creating link folder: %w", err)
	}

	// Folder listings skip the temp suffix, so a watcher never sees a half-written link.
	tmp := fmt.Sprintf("%s.%s.tmp", d.LinkPath, uuid.NewString())
	if err := s.backend.Save(tmp, d); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: saving %s: %w", ErrUnavailable, filepath.Base(d.LinkPath), err)
	}
	if err := os.Rename(tmp, d.LinkPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("moving link into place: %w", err)
	}

	log.Debugf("[Shortcut] created %s -> %s", d.LinkPath, d.Target)
	return nil
}

// Load reads every field of the link at linkPath.
func (s *Service) Load(linkPath string) (Descriptor, error) {
	d, err := s.backend.Load(linkPath)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: loading %s: %w", ErrUnavailable, filepath.Base(linkPath), err)
	}
	d.LinkPath = linkPath
	return d, nil
}

// ResolveTarget returns the concrete path a link points to. Links bound to virtual objects have none
// and report false, as does any link that cannot be read.
func (s *Service) ResolveTarget(linkPath string) (string, bool) {
	d, err := s.Load(linkPath)
	if err != nil {
		log.Debugf("[Shortcut] %v", err)
		return "", false
	}
	if d.Target == "" || IsVirtual(d.Target) {
		return "", false
	}
	return d.Target, true
}

// IsLink reports whether path has the shell link extension.
func IsLink(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}
