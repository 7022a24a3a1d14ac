package desktop

// maxAncestorDepth bounds the parent walk; desktop chains are a handful of levels deep.
const maxAncestorDepth = 32

// Surface is what lies under a screen point, as far as window classes and owners tell.
type Surface int

const (
	// NotDesktop is any other window, including our own.
	NotDesktop Surface = iota
	// BareDesktop is a desktop host or a window inside the desktop view, never an icon.
	BareDesktop
	// IconArea is the desktop icon list. Whether an icon is under the point needs ItemAt.
	IconArea
)

// ClassifyPoint tells which desktop surface is under pt using only window lookups. It never calls
// Locate or ItemAt and is safe to run inside the mouse hook.
func ClassifyPoint(ws WindowSystem, pt Point) Surface {
	under := ws.WindowAt(pt)
	if under == 0 {
		return NotDesktop
	}
	if ws.ProcessID(under) == ws.CurrentProcessID() {
		return NotDesktop
	}

	class := ws.ClassName(under)
	switch class {
	case WorkerClass, ShellClass:
		return BareDesktop
	}

	p := ws.Parent(under)
	for i := 0; p != 0 && i < maxAncestorDepth; i++ {
		if ws.ClassName(p) == ViewClass {
			if class == IconListClass {
				return IconArea
			}
			return BareDesktop
		}
		p = ws.Parent(p)
	}
	return NotDesktop
}

// IsEmptyDesktop reports whether pt is over bare desktop: the window there is not ours, it is either a
// desktop host itself or lives inside the desktop view, and no desktop icon is under the point.
//
// Over the icon list it asks the shell for the item under pt, a cross-process call. Keep it off the
// mouse hook.
func IsEmptyDesktop(ws WindowSystem, pt Point) bool {
	switch ClassifyPoint(ws, pt) {
	case BareDesktop:
		return true
	case IconArea:
		return !ws.ItemAt(pt)
	}
	return false
}
