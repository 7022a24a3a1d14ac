// Package setting describes the widgets of the preferences window.
package setting

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// SettingsHelper is the interface that must be implemented by all settings helpers.
type SettingsHelper interface {
	CreateSectionTitleLabel(desc string) *widget.Label       // Creates a section title label.
	CreateSettingTitleLabel(desc string) *widget.Label       // Creates a setting title label.
	CreateSettingDescriptionLabel(desc string) *widget.Label // Creates a setting description label.
}

// SelectConfig holds the configuration for a select widget whose value is an option index.
type SelectConfig struct {
	Name         string
	Options      []string
	InitialValue int
	Label        fyne.CanvasObject
	HelpContent  fyne.CanvasObject
	OnChanged    func(string, int)
	ApplyFunc    func(int)
	NeedsRefresh bool
}

// BoolConfig holds configuration for a boolean check widget.
type BoolConfig struct {
	Name         string
	InitialValue bool
	Label        fyne.CanvasObject
	HelpContent  fyne.CanvasObject
	OnChanged    func(bool)
	ApplyFunc    func(bool)
	NeedsRefresh bool
}

// ButtonWithConfirmationConfig holds configuration for a button with confirmation dialog.
type ButtonWithConfirmationConfig struct {
	Name           string
	Label          fyne.CanvasObject
	HelpContent    fyne.CanvasObject
	ButtonText     string
	ConfirmTitle   string
	ConfirmMessage string
	OnPressed      func()
}

// StringOptions converts a slice of fmt.Stringer to a slice of strings.
func StringOptions(options []fmt.Stringer) []string {
	stringOptions := []string{}
	for _, option := range options {
		stringOptions = append(stringOptions, option.String())
	}
	return stringOptions
}

// SettingsManager creates preference widgets and collects their pending changes until Apply.
type SettingsManager interface {
	SettingsHelper

	CreateSelectSetting(cfg *SelectConfig, header *fyne.Container) *widget.Select                  // Create a select setting widget.
	CreateBoolSetting(cfg *BoolConfig, header *fyne.Container) *widget.Check                       // Create a boolean setting widget.
	CreateButtonWithConfirmationSetting(cfg *ButtonWithConfirmationConfig, header *fyne.Container) // Create a button setting with confirmation dialog widget.

	GetApplySettingsButton() *widget.Button                        // GetApplySettingsButton returns the Apply Changes button.
	SetSettingChangedCallback(settingName string, callback func()) // Set a callback function to be called when a setting changes.
	RemoveSettingChangedCallback(settingName string)               // Remove a callback function associated with a specific setting.
	SetRefreshFlag(settingName string)                             // Set a flag to indicate that a specific setting needs a refresh.
	UnsetRefreshFlag(settingName string)                           // Unset the refresh flag for a specific setting.

	RegisterRefreshFunc(refreshFunc func()) // Register a function to be called after changes needing a refresh are applied.
	GetSettingsWindow() fyne.Window         // GetSettingsWindow returns the window associated with the SettingsManager.
	GetCheckAndEnableApplyFunc() func()     // GetCheckAndEnableApplyFunc returns the check and enable apply function.
}
