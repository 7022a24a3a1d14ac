package ui

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/hotkey"
	"github.com/dixieflatline76/Fences/pkg/ui/setting"
	"github.com/dixieflatline76/Fences/util/log"
)

// opacity is a fence background opacity offered in the preferences.
type opacity float64

func (o opacity) String() string {
	return fmt.Sprintf("%.0f%%", float64(o)*100)
}

var opacityOptions = []opacity{0.6, 0.75, config.DefaultFenceOpacity, 1}

// nearestOpacity returns the index of the option closest to v.
func nearestOpacity(v float64) int {
	best := 0
	for i, o := range opacityOptions {
		if math.Abs(float64(o)-v) < math.Abs(float64(opacityOptions[best])-v) {
			best = i
		}
	}
	return best
}

func opacityLabels() []string {
	stringers := make([]fmt.Stringer, len(opacityOptions))
	for i, o := range opacityOptions {
		stringers[i] = o
	}
	return setting.StringOptions(stringers)
}

// CreatePreferencesWindow shows the preferences window, or raises it when already open.
func (fa *FencesApp) CreatePreferencesWindow() {
	if fa.prefsWindow != nil {
		fa.prefsWindow.RequestFocus()
		return
	}

	prefsWindow := fa.app.NewWindow(fmt.Sprintf("%s Preferences", config.AppName))
	prefsWindow.Resize(fyne.NewSize(720, 640))
	prefsWindow.CenterOnScreen()
	prefsWindow.SetOnClosed(func() { fa.prefsWindow = nil })
	fa.prefsWindow = prefsWindow

	sm := NewSettingsManager(prefsWindow)
	sm.RegisterRefreshFunc(fa.placeAll)

	header := container.NewVBox()
	fa.createDesktopPreferences(sm, header)
	fa.createFencePreferences(sm, header)
	fa.createAppPreferences(sm, header)

	closeButton := widget.NewButton("Close", prefsWindow.Close)
	footer := container.NewVBox(
		widget.NewSeparator(),
		container.NewHBox(layout.NewSpacer(), sm.GetApplySettingsButton(), closeButton),
	)

	prefsWindow.SetContent(container.NewBorder(nil, footer, nil, nil, container.NewVScroll(header)))
	prefsWindow.Show()
}

func (fa *FencesApp) createDesktopPreferences(sm setting.SettingsManager, header *fyne.Container) {
	header.Add(sm.CreateSectionTitleLabel("Desktop"))
	header.Add(sm.CreateSettingDescriptionLabel("How Fences works with the desktop behind your windows."))

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "hideIconsOnStartup",
		InitialValue: fa.prefs.GetHideIconsOnStartup(),
		Label:        sm.CreateSettingTitleLabel("Hide desktop icons on launch:"),
		HelpContent:  sm.CreateSettingDescriptionLabel("Icons are shown again when Fences quits."),
		ApplyFunc:    fa.prefs.SetHideIconsOnStartup,
	}, header)

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "doubleClickToggle",
		InitialValue: fa.prefs.GetDoubleClickToggle(),
		Label:        sm.CreateSettingTitleLabel("Double-click to hide icons:"),
		HelpContent:  sm.CreateSettingDescriptionLabel("Double-click empty desktop to hide or show the desktop icons."),
		ApplyFunc: func(b bool) {
			fa.prefs.SetDoubleClickToggle(b)
			fa.applyGestures()
		},
	}, header)

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "rightDragCreate",
		InitialValue: fa.prefs.GetRightDragCreate(),
		Label:        sm.CreateSettingTitleLabel("Right-drag to create a fence:"),
		HelpContent:  sm.CreateSettingDescriptionLabel("Hold the right button on empty desktop and draw the fence."),
		ApplyFunc: func(b bool) {
			fa.prefs.SetRightDragCreate(b)
			fa.applyGestures()
		},
	}, header)

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "toggleHotkey",
		InitialValue: fa.prefs.GetToggleHotkeyEnabled(),
		Label:        sm.CreateSettingTitleLabel(hotkey.ToggleCombo + " hides icons:"),
		HelpContent:  sm.CreateSettingDescriptionLabel("Toggle the desktop icons from any application."),
		ApplyFunc: func(b bool) {
			fa.prefs.SetToggleHotkeyEnabled(b)
			fa.applyHotkey()
		},
	}, header)
}

func (fa *FencesApp) createFencePreferences(sm setting.SettingsManager, header *fyne.Container) {
	header.Add(widget.NewSeparator())
	header.Add(sm.CreateSectionTitleLabel("Fences"))

	initial := config.DefaultFenceOpacity
	if all := fa.fences.Fences(); len(all) > 0 {
		initial = all[0].BackgroundOpacity
	}
	sm.CreateSelectSetting(&setting.SelectConfig{
		Name:         "fenceOpacity",
		Options:      opacityLabels(),
		InitialValue: nearestOpacity(initial),
		Label:        sm.CreateSettingTitleLabel("Fence opacity:"),
		HelpContent:  sm.CreateSettingDescriptionLabel("Applies to every fence."),
		ApplyFunc: func(i int) {
			for _, f := range fa.fences.Fences() {
				if err := fa.fences.SetOpacity(f.Name, float64(opacityOptions[i])); err != nil {
					log.Printf("[UI] setting opacity of %q: %v", f.Name, err)
				}
			}
		},
		NeedsRefresh: true,
	}, header)

	sm.CreateButtonWithConfirmationSetting(&setting.ButtonWithConfirmationConfig{
		Name:           "importDesktop",
		Label:          sm.CreateSettingTitleLabel("Sort the desktop:"),
		HelpContent:    sm.CreateSettingDescriptionLabel("Creates Apps, Documents and System fences from what is on your desktop."),
		ButtonText:     "Create Fences from Desktop",
		ConfirmTitle:   "Create fences",
		ConfirmMessage: "Shortcuts to your desktop items are added to fences. The items themselves are not moved.",
		OnPressed:      fa.importDesktop,
	}, header)
}

func (fa *FencesApp) createAppPreferences(sm setting.SettingsManager, header *fyne.Container) {
	header.Add(widget.NewSeparator())
	header.Add(sm.CreateSectionTitleLabel("Application"))

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "runAtStartup",
		InitialValue: fa.prefs.GetRunAtStartup(),
		Label:        sm.CreateSettingTitleLabel("Start with Windows:"),
		ApplyFunc: func(b bool) {
			fa.prefs.SetRunAtStartup(b)
			fa.syncStartup()
		},
	}, header)

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "notifications",
		InitialValue: fa.prefs.GetAppNotificationsEnabled(),
		Label:        sm.CreateSettingTitleLabel("Notifications:"),
		ApplyFunc:    fa.prefs.SetAppNotificationsEnabled,
	}, header)

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "updateCheck",
		InitialValue: fa.prefs.GetUpdateCheckEnabled(),
		Label:        sm.CreateSettingTitleLabel("Check for updates:"),
		HelpContent:  sm.CreateSettingDescriptionLabel("Looks for a new release once at launch."),
		ApplyFunc:    fa.prefs.SetUpdateCheckEnabled,
	}, header)
}
