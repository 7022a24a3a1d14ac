package config

import "fyne.io/fyne/v2"

// AppNotificationsEnabledKey is the key for the app notifications enabled preference
const AppNotificationsEnabledKey = "app_notifications_enabled"

// AppConfig holds the application-wide options
type AppConfig struct {
	prefs fyne.Preferences
}

// NewAppConfig creates a new AppConfig instance
func NewAppConfig(p fyne.Preferences) *AppConfig {
	return &AppConfig{prefs: p}
}

// GetAppNotificationsEnabled returns whether system notifications are enabled
func (c *AppConfig) GetAppNotificationsEnabled() bool {
	return c.prefs.BoolWithFallback(AppNotificationsEnabledKey, true)
}

// SetAppNotificationsEnabled sets whether system notifications are enabled
func (c *AppConfig) SetAppNotificationsEnabled(enabled bool) {
	c.prefs.SetBool(AppNotificationsEnabledKey, enabled)
}

// AppUpdateCheckEnabledKey is the key for the app update check enabled preference
const AppUpdateCheckEnabledKey = "app_update_check_enabled"

// GetUpdateCheckEnabled returns whether the application should check for updates
func (c *AppConfig) GetUpdateCheckEnabled() bool {
	return c.prefs.BoolWithFallback(AppUpdateCheckEnabledKey, true)
}

// SetUpdateCheckEnabled sets whether the application should check for updates
func (c *AppConfig) SetUpdateCheckEnabled(enabled bool) {
	c.prefs.SetBool(AppUpdateCheckEnabledKey, enabled)
}

// RunAtStartupKey is the key for the run at login preference
const RunAtStartupKey = "run_at_startup"

// GetRunAtStartup returns whether the application starts with the user session
func (c *AppConfig) GetRunAtStartup() bool {
	return c.prefs.BoolWithFallback(RunAtStartupKey, false)
}

// SetRunAtStartup sets whether the application starts with the user session
func (c *AppConfig) SetRunAtStartup(enabled bool) {
	c.prefs.SetBool(RunAtStartupKey, enabled)
}

// HideIconsOnStartupKey is the key for the hide desktop icons on launch preference
const HideIconsOnStartupKey = "hide_icons_on_startup"

// GetHideIconsOnStartup returns whether desktop icons are hidden when the application starts
func (c *AppConfig) GetHideIconsOnStartup() bool {
	return c.prefs.BoolWithFallback(HideIconsOnStartupKey, false)
}

// SetHideIconsOnStartup sets whether desktop icons are hidden when the application starts
func (c *AppConfig) SetHideIconsOnStartup(enabled bool) {
	c.prefs.SetBool(HideIconsOnStartupKey, enabled)
}

// DoubleClickToggleKey is the key for the double-click the desktop to toggle icons preference
const DoubleClickToggleKey = "double_click_toggle_icons"

// GetDoubleClickToggle returns whether double-clicking empty desktop toggles the icons
func (c *AppConfig) GetDoubleClickToggle() bool {
	return c.prefs.BoolWithFallback(DoubleClickToggleKey, true)
}

// SetDoubleClickToggle sets whether double-clicking empty desktop toggles the icons
func (c *AppConfig) SetDoubleClickToggle(enabled bool) {
	c.prefs.SetBool(DoubleClickToggleKey, enabled)
}

// RightDragCreateKey is the key for the right-drag to create a fence preference
const RightDragCreateKey = "right_drag_create_fence"

// GetRightDragCreate returns whether a right-button drag on empty desktop offers to create a fence
func (c *AppConfig) GetRightDragCreate() bool {
	return c.prefs.BoolWithFallback(RightDragCreateKey, true)
}

// SetRightDragCreate sets whether a right-button drag on empty desktop offers to create a fence
func (c *AppConfig) SetRightDragCreate(enabled bool) {
	c.prefs.SetBool(RightDragCreateKey, enabled)
}

// ToggleHotkeyEnabledKey is the key for the toggle icons hotkey preference
const ToggleHotkeyEnabledKey = "toggle_hotkey_enabled"

// GetToggleHotkeyEnabled returns whether Ctrl+Alt+D toggles the desktop icons
func (c *AppConfig) GetToggleHotkeyEnabled() bool {
	return c.prefs.BoolWithFallback(ToggleHotkeyEnabledKey, true)
}

// SetToggleHotkeyEnabled sets whether Ctrl+Alt+D toggles the desktop icons
func (c *AppConfig) SetToggleHotkeyEnabled(enabled bool) {
	c.prefs.SetBool(ToggleHotkeyEnabledKey, enabled)
}

// FencesHiddenKey is the key remembering whether the user hid all fences
const FencesHiddenKey = "fences_hidden"

// GetFencesHidden returns whether all fences were hidden from the tray menu
func (c *AppConfig) GetFencesHidden() bool {
	return c.prefs.BoolWithFallback(FencesHiddenKey, false)
}

// SetFencesHidden records whether all fences are hidden
func (c *AppConfig) SetFencesHidden(hidden bool) {
	c.prefs.SetBool(FencesHiddenKey, hidden)
}
