//go:build windows

package main

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/util/log"
)

var mutex windows.Handle

// acquireLock takes the per-session named mutex. It returns false when another instance holds it.
func acquireLock() (bool, error) {
	namePtr, err := windows.UTF16PtrFromString(`Local\` + config.AppName + "_SingleInstanceMutex")
	if err != nil {
		return false, err
	}

	h, err := windows.CreateMutex(nil, false, namePtr)
	if err == windows.ERROR_ALREADY_EXISTS {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating mutex: %w", err)
	}
	mutex = h
	return true, nil
}

// releaseLock releases the single-instance lock. It is safe to call more than once.
func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
	mutex = 0
}
