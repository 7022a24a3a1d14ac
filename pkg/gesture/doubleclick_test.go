package gesture

import (
	"testing"
	"time"

	"github.com/dixieflatline76/Fences/pkg/dispatch/dispatchtest"
	"github.com/stretchr/testify/assert"
)

func newClickRig() (*DoubleClickMonitor, *fakeDesktop, *dispatchtest.Manual, *int) {
	ws := newFakeDesktop()
	ui := dispatchtest.New()
	toggles := 0
	return NewDoubleClickMonitor(ws, ui, func() { toggles++ }), ws, ui, &toggles
}

func TestDoubleClickTogglesAfterDelay(t *testing.T) {
	m, _, ui, toggles := newClickRig()

	m.LeftDown(click(pt(50, 50), 1000))
	assert.Zero(t, ui.Pending(), "a single click does nothing")

	m.LeftDown(click(pt(51, 50), 1200))
	assert.Equal(t, 1, ui.Pending())

	ui.Advance(DefaultToggleDelay - time.Millisecond)
	assert.Zero(t, *toggles)
	ui.Advance(time.Millisecond)
	assert.Equal(t, 1, *toggles)
}

func TestDoubleClickBurstTogglesOnce(t *testing.T) {
	m, _, ui, toggles := newClickRig()

	m.LeftDown(click(pt(50, 50), 1000))
	m.LeftDown(click(pt(50, 50), 1200))
	m.LeftDown(click(pt(50, 50), 1400))
	ui.RunPending()
	ui.Advance(DefaultToggleDelay)
	m.LeftDown(click(pt(50, 50), 1600))
	ui.Advance(DefaultToggleCooldown - time.Millisecond)
	assert.Equal(t, 1, *toggles, "clicks inside the cooldown are ignored")

	ui.Advance(time.Millisecond)
	m.LeftDown(click(pt(50, 50), 5000))
	m.LeftDown(click(pt(50, 50), 5100))
	ui.Advance(DefaultToggleDelay)
	assert.Equal(t, 2, *toggles, "the guard is released after the cooldown")
}

func TestDoubleClickRejected(t *testing.T) {
	tests := []struct {
		name   string
		second Event
		setup  func(*fakeDesktop)
	}{
		{"Too Slow", click(pt(50, 50), 1501), nil},
		{"Too Far Horizontally", click(pt(53, 50), 1100), nil},
		{"Too Far Vertically", click(pt(50, 47), 1100), nil},
		{"Occupied Desktop", click(pt(50, 50), 1100), func(ws *fakeDesktop) { ws.busy[pt(50, 50)] = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ws, ui, toggles := newClickRig()
			if tt.setup != nil {
				tt.setup(ws)
			}
			m.LeftDown(click(pt(50, 50), 1000))
			m.LeftDown(tt.second)
			ui.Advance(2 * time.Second)
			assert.Zero(t, *toggles)
		})
	}
}

func TestDoubleClickDisabled(t *testing.T) {
	m, _, ui, toggles := newClickRig()
	m.SetEnabled(false)

	m.LeftDown(click(pt(50, 50), 1000))
	m.LeftDown(click(pt(50, 50), 1100))
	ui.Advance(2 * time.Second)
	assert.Zero(t, *toggles)
}

func TestDoubleClickTickWraparound(t *testing.T) {
	m, _, ui, toggles := newClickRig()

	m.LeftDown(click(pt(50, 50), 0xFFFFFF00))
	m.LeftDown(click(pt(50, 50), 0x00000010))
	ui.Advance(time.Second)
	assert.Equal(t, 1, *toggles)
}

func TestDoubleClickResetCancelsPendingToggle(t *testing.T) {
	m, _, ui, toggles := newClickRig()

	m.LeftDown(click(pt(50, 50), 1000))
	m.LeftDown(click(pt(50, 50), 1100))
	ui.RunPending()
	assert.Equal(t, 1, ui.PendingTimers())

	m.resetHook()
	m.resetUI()
	ui.Advance(2 * time.Second)
	assert.Zero(t, *toggles)
	assert.Zero(t, ui.PendingTimers())
}

func TestDoubleClickChecksIconsOnUIThread(t *testing.T) {
	tests := []struct {
		name   string
		onIcon bool
		want   int
	}{
		{"Blank Icon Area", false, 1},
		{"Desktop Icon", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ws, ui, toggles := newClickRig()
			ws.iconArea[pt(50, 50)] = true
			ws.icons[pt(50, 50)] = tt.onIcon

			m.LeftDown(click(pt(50, 50), 1000))
			m.LeftDown(click(pt(50, 50), 1100))
			assert.Zero(t, ws.itemCalls, "the icon lookup never runs inside the hook")

			ui.Advance(DefaultToggleDelay)
			assert.Equal(t, 1, ws.itemCalls)
			assert.Equal(t, tt.want, *toggles)
		})
	}
}
