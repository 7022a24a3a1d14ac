package dispatch

// UIThread is a Dispatcher that owns a thread for the process lifetime.
type UIThread interface {
	Dispatcher
	// Owner returns the native window that anchors popups created on the thread, or 0.
	Owner() uintptr
	// Close stops the thread after running what is still queued.
	Close()
}
