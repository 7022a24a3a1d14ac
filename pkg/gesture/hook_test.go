package gesture

import (
	"errors"
	"testing"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/dispatch/dispatchtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookRig struct {
	ws        *fakeDesktop
	ui        *dispatchtest.Manual
	installer *fakeInstaller
	overlay   *recordingOverlay
	menu      *scriptedMenu
	toggles   int
	created   []desktop.LogicalRect
	hook      *Hook
}

func newHookRig() *hookRig {
	r := &hookRig{
		ws:        newFakeDesktop(),
		ui:        dispatchtest.New(),
		installer: &fakeInstaller{},
		overlay:   &recordingOverlay{},
		menu:      &scriptedMenu{answer: true},
	}
	r.hook = NewHook(Options{
		System:      r.ws,
		UI:          r.ui,
		Installer:   r.installer,
		Overlay:     r.overlay,
		Menu:        r.menu,
		ToggleIcons: func() { r.toggles++ },
		CreateFence: func(sel desktop.LogicalRect) { r.created = append(r.created, sel) },
	})
	return r
}

func TestHookStartStop(t *testing.T) {
	r := newHookRig()

	require.NoError(t, r.hook.Start())
	require.NoError(t, r.hook.Start())
	assert.Equal(t, 1, r.installer.installs)
	assert.True(t, r.hook.Running())

	r.hook.Stop()
	r.hook.Stop()
	assert.Equal(t, 1, r.installer.uninstalls)
	assert.False(t, r.hook.Running())
}

func TestHookInstallFailure(t *testing.T) {
	r := newHookRig()
	r.installer.err = ErrUnsupported

	err := r.hook.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.False(t, r.hook.Running())

	r.hook.Stop()
	assert.Zero(t, r.installer.uninstalls)
}

func TestHookRoutesBothGestures(t *testing.T) {
	r := newHookRig()
	require.NoError(t, r.hook.Start())
	feed := r.installer.handler

	feed(Event{Kind: LeftDown, Pt: pt(50, 50), Time: 1000})
	feed(Event{Kind: LeftUp, Pt: pt(50, 50), Time: 1050})
	feed(Event{Kind: LeftDown, Pt: pt(50, 50), Time: 1150})
	r.ui.Advance(DefaultToggleDelay)
	assert.Equal(t, 1, r.toggles)

	assert.False(t, feed(down(pt(200, 200))))
	assert.False(t, feed(move(pt(500, 400))))
	assert.True(t, feed(up(pt(500, 400))))
	r.ui.RunPending()
	assert.Equal(t, []desktop.LogicalRect{{X: 200, Y: 200, Width: 300, Height: 200}}, r.created)
}

func TestHookRecoversFromPanics(t *testing.T) {
	r := newHookRig()
	require.NoError(t, r.hook.Start())
	r.ws.panics = true

	assert.NotPanics(t, func() {
		assert.False(t, r.installer.handler(down(pt(10, 10))), "a failing gesture passes the event through")
	})
	assert.NotPanics(t, func() {
		r.installer.handler(leftDown(pt(10, 10)))
	})
}

func TestHookStopTearsDownDrag(t *testing.T) {
	r := newHookRig()
	require.NoError(t, r.hook.Start())

	r.installer.handler(down(pt(100, 100)))
	r.installer.handler(move(pt(300, 300)))
	require.Equal(t, Dragging, r.hook.Drag.State())

	r.hook.Stop()
	assert.Equal(t, Idle, r.hook.Drag.State())
	assert.False(t, r.overlay.visible, "the overlay is destroyed before Stop returns")
	assert.Equal(t, 1, r.menu.closes)
	assert.Zero(t, r.ui.Pending())
}

func TestHookStopCancelsPendingToggle(t *testing.T) {
	r := newHookRig()
	require.NoError(t, r.hook.Start())

	r.installer.handler(leftDown(pt(50, 50)))
	r.installer.handler(leftDown(pt(50, 50)))
	r.hook.Stop()

	r.ui.Advance(DefaultToggleDelay + DefaultToggleCooldown)
	assert.Zero(t, r.toggles)
}

func TestHookCallbackNeverLooksUpIcons(t *testing.T) {
	r := newHookRig()
	require.NoError(t, r.hook.Start())
	feed := r.installer.handler
	r.ws.iconArea[pt(60, 60)] = true

	feed(Event{Kind: LeftDown, Pt: pt(60, 60), Time: 1000})
	feed(Event{Kind: LeftUp, Pt: pt(60, 60), Time: 1050})
	feed(Event{Kind: LeftDown, Pt: pt(60, 60), Time: 1150})
	feed(down(pt(60, 60)))
	feed(move(pt(300, 300)))
	feed(up(pt(300, 300)))
	assert.Zero(t, r.ws.itemCalls)

	r.ui.RunPending()
	assert.Equal(t, 2, r.ws.itemCalls, "one lookup per gesture, both on the UI thread")
}
