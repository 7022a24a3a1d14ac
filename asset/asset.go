package asset

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dixieflatline76/Fences/util/log"
)

//go:embed text/*
var assets embed.FS

// Icon sizes.
const (
	AppIconSize  = 256
	TrayIconSize = 64
)

var (
	tileColor  = color.NRGBA{R: 0x2D, G: 0x7D, B: 0xD2, A: 0xFF}
	panelColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x55}
	glyphColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Manager manages the loading of UI assets.
type Manager struct {
	mu    sync.Mutex
	icons map[int]fyne.Resource
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{icons: make(map[int]fyne.Resource)}
}

// GetText loads and returns embedded text asset by name.
func (am *Manager) GetText(name string) (string, error) {
	textBytes, err := assets.ReadFile("text/" + name)
	if err != nil {
		log.Println("Error loading text:", err)
		return "", err
	}
	return string(textBytes), nil
}

// AppIcon returns the application icon.
func (am *Manager) AppIcon() fyne.Resource {
	return am.icon(AppIconSize)
}

// TrayIcon returns the icon shown in the notification area.
func (am *Manager) TrayIcon() fyne.Resource {
	return am.icon(TrayIconSize)
}

func (am *Manager) icon(size int) fyne.Resource {
	am.mu.Lock()
	defer am.mu.Unlock()
	if res, ok := am.icons[size]; ok {
		return res
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, DrawIcon(size)); err != nil {
		log.Println("Error encoding icon:", err)
		return nil
	}
	res := fyne.NewStaticResource(fmt.Sprintf("fences-%d.png", size), buf.Bytes())
	am.icons[size] = res
	return res
}

// DrawIcon renders the icon at size pixels square: a blue tile with two fence panels and an F.
// It is drawn on a 16 px grid and scaled up without smoothing.
func DrawIcon(size int) image.Image {
	const grid = 16
	tile := imaging.New(grid, grid, color.NRGBA{})
	draw.Draw(tile, image.Rect(0, 0, grid, grid), image.NewUniform(tileColor), image.Point{}, draw.Src)
	for _, c := range []image.Point{{0, 0}, {grid - 1, 0}, {0, grid - 1}, {grid - 1, grid - 1}} {
		tile.SetNRGBA(c.X, c.Y, color.NRGBA{})
	}

	panels := imaging.New(grid, grid, color.NRGBA{})
	draw.Draw(panels, image.Rect(2, 2, 7, 14), image.NewUniform(panelColor), image.Point{}, draw.Src)
	draw.Draw(panels, image.Rect(9, 2, 14, 8), image.NewUniform(panelColor), image.Point{}, draw.Src)
	tile = imaging.Overlay(tile, panels, image.Point{}, 1)

	d := font.Drawer{
		Dst:  tile,
		Src:  image.NewUniform(glyphColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 14),
	}
	d.DrawString("F")

	if size == grid {
		return tile
	}
	return imaging.Resize(tile, size, size, imaging.NearestNeighbor)
}
