// Package icon resolves display icons for fence items: files, folders, shell links and virtual shell
// objects.
package icon

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Fences/pkg/shortcut"
	"github.com/dixieflatline76/Fences/util/log"
)

// ErrNoIcon is returned by a Source that found nothing for the request.
var ErrNoIcon = errors.New("no icon")

// ResourceSize bounds the edge, in pixels, of icons handed to the UI.
const ResourceSize = 48

// maxLinkDepth bounds link-to-link chains, which can be cyclic.
const maxLinkDepth = 4

// Source extracts native icons. Each method returns an in-memory copy; native handles never escape.
type Source interface {
	// FileIcon extracts the icon at index from an icon, executable or library file.
	FileIcon(file string, index int32) (image.Image, error)
	// LinkIcon renders the shell icon of the item list stored inside a shell link.
	LinkIcon(link string) (image.Image, error)
	// ShellIcon renders the shell's large icon for a path or a virtual token.
	ShellIcon(pathOrToken string) (image.Image, error)
}

// Links reads shell link descriptors.
type Links interface {
	Load(linkPath string) (shortcut.Descriptor, error)
}

// Resolver picks the best icon for an item, falling back to a generic one.
type Resolver struct {
	src      Source
	links    Links
	fallback image.Image

	mu    sync.Mutex
	cache map[string]fyne.Resource
}

// NewResolver returns a Resolver using the platform icon source.
func NewResolver(links Links) *Resolver {
	return NewResolverWithSource(newNativeSource(), links)
}

// NewResolverWithSource returns a Resolver over src.
func NewResolverWithSource(src Source, links Links) *Resolver {
	return &Resolver{
		src:      src,
		links:    links,
		fallback: genericIcon(),
		cache:    make(map[string]fyne.Resource),
	}
}

// Resolve returns the icon for pathOrToken. It never returns nil.
func (r *Resolver) Resolve(pathOrToken string) image.Image {
	if img := r.resolve(strings.TrimSpace(pathOrToken), 0); img != nil {
		return img
	}
	return r.fallback
}

// Fallback returns the generic icon used when nothing better is found.
func (r *Resolver) Fallback() image.Image {
	return r.fallback
}

func (r *Resolver) resolve(p string, depth int) image.Image {
	if p == "" {
		return nil
	}
	if shortcut.IsLink(p) && depth < maxLinkDepth {
		if img := r.fromLink(p, depth); img != nil {
			return img
		}
	}
	return r.attempt("shell", p, func() (image.Image, error) { return r.src.ShellIcon(p) })
}

// fromLink tries, in order: the icon location stored in the link, the link's item list, its concrete
// target and finally a CLSID carried in its arguments.
func (r *Resolver) fromLink(link string, depth int) image.Image {
	d, err := r.links.Load(link)
	if err != nil {
		log.Debugf("[Icon] %v", err)
		return nil
	}

	if loc := strings.TrimSpace(d.IconLocation); loc != "" {
		if img := r.attempt("location", link, func() (image.Image, error) { return r.src.FileIcon(loc, d.IconIndex) }); img != nil {
			return img
		}
	}
	if img := r.attempt("idlist", link, func() (image.Image, error) { return r.src.LinkIcon(link) }); img != nil {
		return img
	}
	if d.Target != "" && !shortcut.IsVirtual(d.Target) {
		return r.resolve(d.Target, depth+1)
	}
	if token := clsidToken(d.Arguments); token != "" {
		return r.attempt("arguments", link, func() (image.Image, error) { return r.src.ShellIcon(token) })
	}
	return nil
}

func (r *Resolver) attempt(step, p string, fn func() (image.Image, error)) image.Image {
	img, err := fn()
	if err != nil || img == nil {
		if err != nil && !errors.Is(err, ErrNoIcon) {
			log.Debugf("[Icon] %s lookup for %s failed: %v", step, p, err)
		}
		return nil
	}
	return img
}

// clsidToken finds a "::{CLSID}" in s, as in "explorer.exe ::{20D04FE0-...}", and returns it as a
// shell token.
func clsidToken(s string) string {
	i := strings.Index(s, "::")
	if i < 0 {
		return ""
	}
	open := strings.IndexByte(s[i:], '{')
	if open < 0 {
		return ""
	}
	open += i
	end := strings.IndexByte(s[open:], '}')
	if end < 0 {
		return ""
	}
	return "shell:::" + s[open:open+end+1]
}

// Resource returns the icon as a PNG resource sized for the UI. Results are cached per path.
func (r *Resolver) Resource(pathOrToken string) fyne.Resource {
	key := strings.ToLower(strings.TrimSpace(pathOrToken))

	r.mu.Lock()
	res, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return res
	}

	data, err := encodePNG(imaging.Fit(r.Resolve(pathOrToken), ResourceSize, ResourceSize, imaging.Lanczos))
	if err != nil {
		log.Printf("[Icon] encoding icon for %s: %v", pathOrToken, err)
		return nil
	}
	res = fyne.NewStaticResource(resourceName(key), data)

	r.mu.Lock()
	r.cache[key] = res
	r.mu.Unlock()
	return res
}

// Forget drops the cached resource for a path, for example after its link changed.
func (r *Resolver) Forget(pathOrToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, strings.ToLower(strings.TrimSpace(pathOrToken)))
}

// resourceName is unique per path; the UI caches decoded images by resource name.
func resourceName(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return fmt.Sprintf("icon-%016x.png", h.Sum64())
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// genericIcon draws a plain page with a shadow.
func genericIcon() image.Image {
	canvas := imaging.New(ResourceSize, ResourceSize, color.NRGBA{})
	shadow := imaging.New(32, 40, color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0x80})
	page := imaging.New(30, 38, color.NRGBA{R: 0xF4, G: 0xF4, B: 0xF4, A: 0xFF})
	fold := imaging.New(8, 8, color.NRGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF})

	canvas = imaging.Overlay(canvas, shadow, image.Pt(9, 5), 1)
	canvas = imaging.Overlay(canvas, page, image.Pt(8, 4), 1)
	return imaging.Overlay(canvas, fold, image.Pt(30, 4), 1)
}
