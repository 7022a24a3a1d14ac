// Command fences runs the Fences tray application.
package main

import (
	"os"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/ui"
	"github.com/dixieflatline76/Fences/util/log"
)

func main() {
	ok, err := acquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire single-instance lock: %v", err)
	}
	if !ok {
		log.Printf("Another instance of %s is already running.", config.AppName)
		return
	}
	defer releaseLock()

	log.Printf("%s %s starting", config.AppName, config.AppVersion)
	app := ui.GetInstance()
	if app == nil {
		releaseLock()
		os.Exit(1)
	}
	app.Run()
}
