package desktop

// Anchor keeps fence windows directly above the desktop host, beneath ordinary application windows.
type Anchor struct {
	loc *Locator
	ws  WindowSystem
}

// NewAnchor returns an Anchor using loc to find the desktop host.
func NewAnchor(loc *Locator, ws WindowSystem) *Anchor {
	return &Anchor{loc: loc, ws: ws}
}

// AnchorBelowNormalWindows restacks w immediately above the desktop host without activating, moving
// or resizing it. Shells restack the desktop from time to time, so callers repeat this whenever the
// window is shown or activated. It reports whether a placement was made or was already in effect.
func (a *Anchor) AnchorBelowNormalWindows(w HWND) bool {
	if w == 0 || !a.ws.IsWindow(w) {
		return false
	}

	h := a.loc.Locate()
	host := h.Wallpaper
	if host == 0 {
		host = h.Shell
	}
	if host == 0 {
		return false
	}

	// Inserting after the window that currently sits on top of the host lands w right above the host.
	after := a.ws.PrevWindow(host)
	switch after {
	case w:
		return true
	case 0:
		after = host
	}
	return a.ws.PlaceAfter(w, after)
}
