package ui

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dixieflatline76/Fences/asset"
	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/fence"
	"github.com/dixieflatline76/Fences/util"
	"github.com/dixieflatline76/Fences/util/log"
)

// addVersionWatermark writes the version into the bottom-right corner of img.
func addVersionWatermark(img image.Image, version string) image.Image {
	if version == "" {
		version = "dev"
	}
	text := fmt.Sprintf("Version: %s", version)

	watermark := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.Transparent)
	bounds, _ := font.BoundString(basicfont.Face7x13, text)
	textWidth := bounds.Max.X.Ceil()

	d := &font.Drawer{
		Dst:  watermark,
		Src:  image.NewUniform(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xD0}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(img.Bounds().Dx()-textWidth-10, img.Bounds().Dy()-10),
	}
	d.DrawString(text)

	return imaging.Overlay(img, watermark, image.Pt(0, 0), 1)
}

// CreateSplashScreen shows the application icon with its version for a few seconds.
func (fa *FencesApp) CreateSplashScreen() {
	drv, ok := fa.app.Driver().(fynedesktop.Driver)
	if !ok {
		log.Println("Splash screen not supported")
		return
	}
	splashWindow := drv.CreateSplashWindow()

	img := canvas.NewImageFromImage(addVersionWatermark(asset.DrawIcon(asset.AppIconSize), config.AppVersion))
	img.FillMode = canvas.ImageFillOriginal

	splashWindow.SetContent(img)
	splashWindow.Resize(fyne.NewSize(asset.AppIconSize, asset.AppIconSize))
	splashWindow.CenterOnScreen()
	splashWindow.Show()

	time.AfterFunc(aboutSplashTime, func() {
		fyne.Do(splashWindow.Close)
	})
}

// showWelcome explains the gestures on first run and offers to sort the desktop into fences.
func (fa *FencesApp) showWelcome() {
	text, err := fa.assetMgr.GetText("about.txt")
	if err != nil {
		log.Printf("[UI] loading welcome text: %v", err)
	}

	w := fa.app.NewWindow(fmt.Sprintf("Welcome to %s", config.AppName))
	w.Resize(fyne.NewSize(560, 360))
	w.CenterOnScreen()

	body := widget.NewRichTextWithText(text)
	body.Wrapping = fyne.TextWrapWord
	content := container.NewBorder(
		CreateSectionTitleLabel("Your desktop, in fences"),
		CreateSettingDescriptionLabel("You can do this later from the tray menu."),
		nil, nil,
		container.NewVScroll(body),
	)

	d := dialog.NewCustomConfirm("Create fences from your desktop now?", "Create Fences", "Not Now", content, func(yes bool) {
		util.MarkWelcomeSeen(fa.app.Preferences())
		w.Close()
		if yes {
			fa.importDesktop()
		}
	}, w)
	d.Resize(fyne.NewSize(555, 355))
	w.Show()
	d.Show()
}

func importSummary(res fence.ImportResult) string {
	return fmt.Sprintf("%d apps, %d documents and %d system shortcuts added.", res.Apps, res.Documents, res.System)
}
