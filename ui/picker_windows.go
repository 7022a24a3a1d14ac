//go:build windows

package ui

import (
	"errors"

	"fyne.io/fyne/v2"
	"github.com/harry1453/go-common-file-dialog/cfd"
	"github.com/harry1453/go-common-file-dialog/cfdutil"

	"github.com/dixieflatline76/Fences/util/log"
)

// The native dialogs block, so they run off the fyne thread and report back through fyne.Do.

func pickFiles(_ fyne.Window, title string, done func([]string)) {
	go func() {
		paths, err := cfdutil.ShowOpenMultipleFilesDialog(cfd.DialogConfig{
			Title: title,
			Role:  "FencesAddFiles",
			FileFilters: []cfd.FileFilter{
				{DisplayName: "All files (*.*)", Pattern: "*.*"},
			},
		})
		if err != nil && !errors.Is(err, cfd.ErrorCancelled) {
			log.Printf("[UI] file dialog: %v", err)
		}
		if len(paths) > 0 {
			fyne.Do(func() { done(paths) })
		}
	}()
}

func pickFolder(_ fyne.Window, title string, done func(string)) {
	go func() {
		folder, err := cfdutil.ShowPickFolderDialog(cfd.DialogConfig{
			Title: title,
			Role:  "FencesAddFolder",
		})
		if err != nil && !errors.Is(err, cfd.ErrorCancelled) {
			log.Printf("[UI] folder dialog: %v", err)
		}
		if folder != "" {
			fyne.Do(func() { done(folder) })
		}
	}()
}
