package ui

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/dixieflatline76/Fences/asset"
	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/fence"
	"github.com/dixieflatline76/Fences/pkg/hotkey"
	"github.com/dixieflatline76/Fences/pkg/shell"
	"github.com/dixieflatline76/Fences/pkg/startup"
	"github.com/dixieflatline76/Fences/util"
	"github.com/dixieflatline76/Fences/util/log"
)

// FencesApp is the tray application: it owns the desktop integration service, the fence list
// and one window per fence.
type FencesApp struct {
	app      fyne.App
	assetMgr *asset.Manager
	prefs    *config.AppConfig
	shell    *shell.Service
	fences   *fence.Manager
	watcher  *fence.Watcher
	startup  *startup.Registration
	hotkey   *hotkey.Listener

	trayMenu    *fyne.Menu
	hiddenItem  *fyne.MenuItem
	updateItem  *fyne.MenuItem
	prefsWindow fyne.Window

	// fyne thread only, keyed by lower-cased fence name
	windows map[string]*fenceWindow

	hookWarned *util.SafeFlag
	stopOnce   sync.Once
}

var (
	instance *FencesApp // Singleton instance of the application
	once     sync.Once  // Ensures the singleton is created only once
)

// GetInstance returns the singleton instance of the application, or nil when the platform has no
// system tray or the desktop integration cannot start.
func GetInstance() *FencesApp {
	a := app.NewWithID(config.AppID)
	if _, ok := a.(fynedesktop.App); !ok {
		log.Println("Tray icon not supported on this platform")
		return nil
	}
	once.Do(func() {
		svc, err := shell.New(shell.Options{})
		if err != nil {
			log.Printf("[UI] starting desktop integration: %v", err)
			return
		}
		instance = &FencesApp{
			app:        a,
			assetMgr:   asset.NewManager(),
			prefs:      config.NewAppConfig(a.Preferences()),
			shell:      svc,
			fences:     fence.NewManager(config.GetConfig(), svc.Links(), fence.DefaultRoot()),
			startup:    startup.New(),
			windows:    make(map[string]*fenceWindow),
			hookWarned: util.NewSafeBool(),
		}
		instance.hotkey = hotkey.NewToggleListener(svc.ToggleIcons)
		instance.CreateTrayMenu()
	})
	return instance
}

// CreateTrayMenu creates the tray menu for the application
func (fa *FencesApp) CreateTrayMenu() {
	desk := fa.app.(fynedesktop.App)

	fa.hiddenItem = fyne.NewMenuItem(hideFencesLabel(fa.prefs.GetFencesHidden()), fa.toggleFencesHidden)
	fa.hiddenItem.Icon = theme.VisibilityIcon()

	quit := fa.createMenuItem("Quit", fa.app.Quit, theme.LogoutIcon())
	quit.IsQuit = true

	fa.trayMenu = fyne.NewMenu(config.AppName,
		fa.createMenuItem("New Fence", fa.newFence, theme.ContentAddIcon()),
		fa.createMenuItem("Create Fences from Desktop", fa.importDesktop, theme.DownloadIcon()),
		fyne.NewMenuItemSeparator(),
		fa.hiddenItem,
		fa.createMenuItem("Toggle Desktop Icons", fa.shell.ToggleIcons, theme.GridIcon()),
		fyne.NewMenuItemSeparator(),
		fa.createMenuItem("Preferences", fa.CreatePreferencesWindow, theme.SettingsIcon()),
		fa.createMenuItem("Check for Updates", func() { go fa.checkForUpdates(true) }, theme.ViewRefreshIcon()),
		fa.createMenuItem("About Fences", fa.CreateSplashScreen, fa.assetMgr.TrayIcon()),
		fyne.NewMenuItemSeparator(),
		quit,
	)
	desk.SetSystemTrayMenu(fa.trayMenu)
	desk.SetSystemTrayIcon(fa.assetMgr.TrayIcon())
	fa.app.SetIcon(fa.assetMgr.AppIcon())
}

func (fa *FencesApp) createMenuItem(label string, action func(), icon fyne.Resource) *fyne.MenuItem {
	mi := fyne.NewMenuItem(label, action)
	mi.Icon = icon
	return mi
}

func hideFencesLabel(hidden bool) string {
	if hidden {
		return "Show All Fences"
	}
	return "Hide All Fences"
}

// Run starts the desktop integration once fyne is up and blocks until the application quits.
func (fa *FencesApp) Run() {
	lc := fa.app.Lifecycle()
	lc.SetOnStarted(fa.start)
	lc.SetOnStopped(fa.shutdown)
	lc.SetOnEnteredForeground(fa.anchorAll)
	fa.app.Run()
}

func (fa *FencesApp) start() {
	fa.shell.Start()
	if fa.prefs.GetHideIconsOnStartup() {
		fa.shell.SetIconsVisible(false)
	}
	fa.syncStartup()
	fa.applyGestures()
	fa.applyHotkey()

	w, err := fence.NewWatcher(func(folder string) {
		fyne.Do(func() { fa.folderChanged(folder) })
	})
	if err != nil {
		log.Printf("[UI] fence folders will not refresh on their own: %v", err)
	}
	fa.watcher = w

	fa.syncWindows()
	if !util.HasSeenWelcome(fa.app.Preferences()) {
		fa.showWelcome()
	}
	if fa.prefs.GetUpdateCheckEnabled() {
		go fa.checkForUpdates(false)
	}
}

// shutdown undoes everything start did: the hook is removed and the desktop icons are shown again.
func (fa *FencesApp) shutdown() {
	fa.stopOnce.Do(func() {
		fa.hotkey.Stop()
		if fa.watcher != nil {
			if err := fa.watcher.Close(); err != nil {
				log.Printf("[UI] closing folder watcher: %v", err)
			}
		}
		fa.shell.Stop()
		if err := config.GetConfig().Save(); err != nil {
			log.Printf("[UI] saving fences: %v", err)
		}
		log.Println("[UI] stopped")
	})
}

func (fa *FencesApp) syncStartup() {
	exe, err := os.Executable()
	if err != nil {
		log.Printf("[Startup] locating executable: %v", err)
		return
	}
	if err := fa.startup.Sync(fa.prefs.GetRunAtStartup(), exe); err != nil && !errors.Is(err, startup.ErrUnsupported) {
		log.Printf("[Startup] %v", err)
	}
}

// applyGestures brings the hook in line with the gesture preferences. The hook stays removed while
// both gestures are off.
func (fa *FencesApp) applyGestures() {
	dbl, drag := fa.prefs.GetDoubleClickToggle(), fa.prefs.GetRightDragCreate()
	fa.shell.SetDoubleClickToggle(dbl)
	fa.shell.SetRightDragCreate(drag)
	if !dbl && !drag {
		fa.shell.StopGestureHook()
		return
	}
	err := fa.shell.StartGestureHook(func(r desktop.LogicalRect) {
		fyne.Do(func() { fa.createFenceAt(r) })
	})
	if err != nil {
		log.Printf("[UI] desktop gestures unavailable: %v", err)
		if !fa.hookWarned.Swap(true) {
			fa.notify("Desktop gestures unavailable", "Double-click and right-drag on the desktop will not work this session.")
		}
	}
}

func (fa *FencesApp) applyHotkey() {
	if !fa.prefs.GetToggleHotkeyEnabled() {
		fa.hotkey.Stop()
		return
	}
	if err := fa.hotkey.Start(); err != nil {
		log.Printf("[UI] %v", err)
		if !errors.Is(err, hotkey.ErrUnsupported) {
			fa.notify("Hotkey unavailable", hotkey.ToggleCombo+" is used by another application.")
		}
	}
}

func (fa *FencesApp) notify(title, content string) {
	if fa.prefs.GetAppNotificationsEnabled() {
		fa.app.SendNotification(fyne.NewNotification(title, content))
	}
}

// syncWindows opens a window for every fence and closes the windows of fences that are gone.
func (fa *FencesApp) syncWindows() {
	hidden := fa.prefs.GetFencesHidden()
	seen := make(map[string]bool)
	for _, f := range fa.fences.Fences() {
		key := strings.ToLower(f.Name)
		seen[key] = true
		if _, ok := fa.windows[key]; ok {
			continue
		}
		fw := newFenceWindow(fa, f)
		fa.windows[key] = fw
		fa.watch(f.FolderPath)
		if !hidden {
			fw.show()
		}
	}
	for key, fw := range fa.windows {
		if !seen[key] {
			fw.close()
			delete(fa.windows, key)
		}
	}
}

func (fa *FencesApp) watch(folder string) {
	if fa.watcher == nil {
		return
	}
	if err := fa.watcher.Watch(folder); err != nil {
		log.Printf("[UI] %v", err)
	}
}

func (fa *FencesApp) unwatch(folder string) {
	if fa.watcher != nil {
		fa.watcher.Unwatch(folder)
	}
}

func (fa *FencesApp) folderChanged(folder string) {
	for _, fw := range fa.windows {
		if f, ok := fw.config(); ok && strings.EqualFold(f.FolderPath, folder) {
			fw.reload()
		}
	}
}

func (fa *FencesApp) anchorAll() {
	for _, fw := range fa.windows {
		fw.anchor()
	}
}

func (fa *FencesApp) newFence() {
	f, err := fa.fences.CreateDefault()
	if err != nil {
		log.Printf("[UI] creating fence: %v", err)
		return
	}
	fa.showFence(f)
}

// createFenceAt adds a fence over the rectangle selected with a right-button drag.
func (fa *FencesApp) createFenceAt(r desktop.LogicalRect) {
	f, err := fa.fences.Create("", r)
	if err != nil {
		log.Printf("[UI] creating fence: %v", err)
		return
	}
	fa.showFence(f)
}

func (fa *FencesApp) showFence(f config.FenceConfig) {
	if fa.prefs.GetFencesHidden() {
		fa.setFencesHidden(false)
	}
	fa.syncWindows()
	if fw, ok := fa.windows[strings.ToLower(f.Name)]; ok {
		fw.show()
	}
}

func (fa *FencesApp) renameFence(fw *fenceWindow, newName string) {
	old, ok := fw.config()
	if !ok {
		return
	}
	fa.unwatch(old.FolderPath)
	f, err := fa.fences.Rename(old.Name, newName)
	if err != nil {
		fa.watch(old.FolderPath)
		dialog.ShowError(err, fw.win)
		return
	}
	delete(fa.windows, strings.ToLower(old.Name))
	fa.windows[strings.ToLower(f.Name)] = fw
	fw.renamed(f.Name)
	fa.watch(f.FolderPath)
	fw.reload()
}

func (fa *FencesApp) deleteFence(fw *fenceWindow, removeFolder bool) {
	f, ok := fw.config()
	if !ok {
		return
	}
	fa.unwatch(f.FolderPath)
	if err := fa.fences.Delete(f.Name, removeFolder); err != nil {
		dialog.ShowError(err, fw.win)
		return
	}
	delete(fa.windows, strings.ToLower(f.Name))
	fw.close()
}

// importDesktop sorts the desktop into fences off the fyne thread, then opens the new windows.
func (fa *FencesApp) importDesktop() {
	go func() {
		if fa.watcher != nil {
			fa.watcher.SetPaused(true)
			defer fa.watcher.SetPaused(false)
		}
		res, err := fa.fences.AutoImport(fence.DesktopDir())
		if err != nil {
			log.Printf("[UI] importing desktop: %v", err)
		}
		fyne.Do(func() {
			fa.syncWindows()
			for _, fw := range fa.windows {
				fw.reload()
			}
			fa.notify("Desktop imported", importSummary(res))
		})
	}()
}

func (fa *FencesApp) toggleFencesHidden() {
	fa.setFencesHidden(!fa.prefs.GetFencesHidden())
}

func (fa *FencesApp) setFencesHidden(hidden bool) {
	fa.prefs.SetFencesHidden(hidden)
	for _, fw := range fa.windows {
		if hidden {
			fw.hide()
		} else {
			fw.show()
		}
	}
	fa.hiddenItem.Label = hideFencesLabel(hidden)
	fa.trayMenu.Refresh()
}

// placeAll reapplies the stored geometry and style of every visible fence.
func (fa *FencesApp) placeAll() {
	if fa.prefs.GetFencesHidden() {
		return
	}
	for _, fw := range fa.windows {
		fw.place()
	}
}

// checkForUpdates asks GitHub for the latest release and offers it in the tray menu. A manual check
// also reports failures and an up to date version.
func (fa *FencesApp) checkForUpdates(manual bool) {
	res, err := util.CheckForUpdates(&http.Client{Timeout: 15 * time.Second})
	if err != nil {
		log.Printf("[Update] check failed: %v", err)
		if manual {
			fyne.Do(func() { fa.notify("Update check failed", "Could not reach GitHub. Try again later.") })
		}
		return
	}
	if !res.UpdateAvailable {
		log.Debugf("[Update] %s is current", res.CurrentVersion)
		if manual {
			fyne.Do(func() { fa.notify("No update available", config.AppName+" is up to date.") })
		}
		return
	}
	releaseURL, err := url.Parse(res.ReleaseURL)
	if err != nil {
		log.Printf("[Update] bad release URL %q: %v", res.ReleaseURL, err)
		return
	}
	log.Printf("[Update] %s available", res.LatestVersion)

	fyne.Do(func() {
		open := func() {
			if err := fa.app.OpenURL(releaseURL); err != nil {
				log.Printf("[Update] opening %s: %v", releaseURL, err)
			}
		}
		if fa.updateItem == nil {
			fa.updateItem = fa.createMenuItem("", nil, theme.DownloadIcon())
			fa.trayMenu.Items = append([]*fyne.MenuItem{fa.updateItem, fyne.NewMenuItemSeparator()}, fa.trayMenu.Items...)
		}
		fa.updateItem.Label = updateMenuItemPrefix + res.LatestVersion
		fa.updateItem.Action = open
		fa.trayMenu.Refresh()
		fa.notify("Update available", config.AppName+" "+res.LatestVersion+" is ready to download.")
	})
}
