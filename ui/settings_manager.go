package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dixieflatline76/Fences/pkg/ui/setting"
)

// SettingsManager builds the preference rows and holds their changes until Apply is pressed.
type SettingsManager struct {
	chgPrefsCallbacks   map[string]func()
	refreshFlags        map[string]bool
	refreshFuncs        []func()
	checkAndEnableApply func()
	applyButton         *widget.Button
	prefsWindow         fyne.Window
}

// NewSettingsManager creates a new SettingsManager for window.
func NewSettingsManager(window fyne.Window) setting.SettingsManager {
	sm := &SettingsManager{
		chgPrefsCallbacks: make(map[string]func()),
		refreshFlags:      make(map[string]bool),
		prefsWindow:       window,
	}

	sm.applyButton = createApplyButton(sm)
	sm.checkAndEnableApply = func() {
		if len(sm.refreshFlags) > 0 || len(sm.chgPrefsCallbacks) > 0 {
			sm.applyButton.Enable()
		} else {
			sm.applyButton.Disable()
		}
		sm.applyButton.Refresh()
	}
	return sm
}

func createApplyButton(sm *SettingsManager) *widget.Button {
	var applyButton *widget.Button
	applyButton = widget.NewButton("Apply Changes", func() {
		applyButton.Disable()
		for _, callback := range sm.chgPrefsCallbacks {
			callback()
		}
		sm.chgPrefsCallbacks = make(map[string]func())

		if len(sm.refreshFlags) > 0 {
			for _, rf := range sm.refreshFuncs {
				rf()
			}
			sm.refreshFlags = make(map[string]bool)
		}
		applyButton.Refresh()
	})
	applyButton.Disable()
	return applyButton
}

// GetApplySettingsButton returns the Apply Changes button.
func (sm *SettingsManager) GetApplySettingsButton() *widget.Button {
	return sm.applyButton
}

// CreateSelectSetting adds a select row. Choosing the initial option again discards the pending change.
func (sm *SettingsManager) CreateSelectSetting(cfg *setting.SelectConfig, header *fyne.Container) *widget.Select {
	selectWidget := widget.NewSelect(cfg.Options, nil)
	selectWidget.SetSelectedIndex(cfg.InitialValue)

	header.Add(NewSplitRow(cfg.Label, selectWidget, OneThird))
	if cfg.HelpContent != nil {
		header.Add(cfg.HelpContent)
	}

	selectWidget.OnChanged = func(s string) {
		selectedIndex := selectWidget.SelectedIndex()
		sm.track(cfg.Name, selectedIndex != cfg.InitialValue, cfg.NeedsRefresh, func() {
			cfg.ApplyFunc(selectedIndex)
			cfg.InitialValue = selectedIndex
		})
		if cfg.OnChanged != nil {
			cfg.OnChanged(s, selectedIndex)
		}
		sm.checkAndEnableApply()
	}
	return selectWidget
}

// CreateBoolSetting adds a check row.
func (sm *SettingsManager) CreateBoolSetting(cfg *setting.BoolConfig, header *fyne.Container) *widget.Check {
	check := widget.NewCheck("", nil)
	check.SetChecked(cfg.InitialValue)

	header.Add(NewSplitRow(cfg.Label, check, OneThird))
	if cfg.HelpContent != nil {
		header.Add(cfg.HelpContent)
	}

	check.OnChanged = func(b bool) {
		sm.track(cfg.Name, b != cfg.InitialValue, cfg.NeedsRefresh, func() {
			cfg.ApplyFunc(b)
			cfg.InitialValue = b
		})
		if cfg.OnChanged != nil {
			cfg.OnChanged(b)
		}
		sm.checkAndEnableApply()
	}
	return check
}

// track records or discards the pending change of one setting.
func (sm *SettingsManager) track(name string, changed, needsRefresh bool, apply func()) {
	if changed {
		sm.SetSettingChangedCallback(name, apply)
		if needsRefresh {
			sm.SetRefreshFlag(name)
		}
		return
	}
	sm.RemoveSettingChangedCallback(name)
	if needsRefresh {
		sm.UnsetRefreshFlag(name)
	}
}

// CreateButtonWithConfirmationSetting adds a button that runs OnPressed, after a confirmation
// dialog when a title and message are set.
func (sm *SettingsManager) CreateButtonWithConfirmationSetting(cfg *setting.ButtonWithConfirmationConfig, header *fyne.Container) {
	button := widget.NewButton(cfg.ButtonText, func() {
		if cfg.ConfirmTitle == "" || cfg.ConfirmMessage == "" {
			cfg.OnPressed()
			return
		}
		dialog.ShowConfirm(cfg.ConfirmTitle, cfg.ConfirmMessage, func(ok bool) {
			if ok {
				cfg.OnPressed()
			}
		}, sm.prefsWindow)
	})

	if cfg.Label != nil {
		header.Add(NewOpposedSplitRow(cfg.Label, button, OneThird))
	} else {
		header.Add(button)
	}
	if cfg.HelpContent != nil {
		header.Add(cfg.HelpContent)
	}
}

// SetSettingChangedCallback sets a callback function to be called when a setting changes.
func (sm *SettingsManager) SetSettingChangedCallback(settingName string, callback func()) {
	sm.chgPrefsCallbacks[settingName] = callback
}

// RemoveSettingChangedCallback removes a callback function associated with a specific setting.
func (sm *SettingsManager) RemoveSettingChangedCallback(settingName string) {
	delete(sm.chgPrefsCallbacks, settingName)
}

// SetRefreshFlag sets a flag to indicate that a specific setting needs a refresh.
func (sm *SettingsManager) SetRefreshFlag(settingName string) {
	sm.refreshFlags[settingName] = true
}

// UnsetRefreshFlag removes the refresh flag for a specific setting.
func (sm *SettingsManager) UnsetRefreshFlag(settingName string) {
	delete(sm.refreshFlags, settingName)
}

// RegisterRefreshFunc registers a function to run after changes that need a refresh are applied.
func (sm *SettingsManager) RegisterRefreshFunc(refreshFunc func()) {
	sm.refreshFuncs = append(sm.refreshFuncs, refreshFunc)
}

// GetSettingsWindow returns the window associated with the SettingsManager.
func (sm *SettingsManager) GetSettingsWindow() fyne.Window {
	return sm.prefsWindow
}

// GetCheckAndEnableApplyFunc returns the check and enable apply function for the SettingsManager.
func (sm *SettingsManager) GetCheckAndEnableApplyFunc() func() {
	return sm.checkAndEnableApply
}

// CreateSectionTitleLabel creates a label for a section title
func (sm *SettingsManager) CreateSectionTitleLabel(desc string) *widget.Label {
	return CreateSectionTitleLabel(desc)
}

// CreateSettingTitleLabel creates a label for a setting title
func (sm *SettingsManager) CreateSettingTitleLabel(desc string) *widget.Label {
	return CreateSettingTitleLabel(desc)
}

// CreateSettingDescriptionLabel creates a label for a setting description
func (sm *SettingsManager) CreateSettingDescriptionLabel(desc string) *widget.Label {
	return CreateSettingDescriptionLabel(desc)
}
