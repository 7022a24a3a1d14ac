package ui

import "time"

// aboutSplashTime is how long the about screen is shown.
const aboutSplashTime = 3 * time.Second

// updateMenuItemPrefix is the copy for the new update available tray menu item
const updateMenuItemPrefix = "Update to "

// Fence window chrome, in fyne units.
const (
	titleBarHeight = 36
	itemTileWidth  = 84
	itemTileHeight = 84
	itemIconSize   = 40
	// iconLoadLimit bounds the concurrent icon extractions of one fence.
	iconLoadLimit = 4
)
