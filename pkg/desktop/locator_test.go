package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name string
		ws   *fakeSystem
		want Handles
	}{
		{
			name: "Worker Hosted View",
			ws:   newModernDesktop(),
			want: Handles{Shell: hProgman, Wallpaper: hWorker, View: hDefView, Icons: hIconList},
		},
		{
			name: "View Under Progman",
			ws:   newLegacyDesktop(),
			want: Handles{Shell: hProgman, View: hDefView, Icons: hIconList},
		},
		{
			name: "No Shell",
			ws:   newFakeSystem(),
			want: Handles{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewLocator(tt.ws)
			assert.Equal(t, tt.want, loc.Locate())
		})
	}
}

func TestLocateCachesCompleteChain(t *testing.T) {
	ws := newModernDesktop()
	loc := NewLocator(ws)

	first := loc.Locate()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, loc.Locate())
	}
	assert.Equal(t, 1, ws.enumerations, "a valid cache should not be rediscovered")
	assert.Equal(t, 1, ws.spawns)
}

func TestLocateRediscoversAfterShellRestart(t *testing.T) {
	ws := newModernDesktop()
	loc := NewLocator(ws)
	assert.True(t, loc.Locate().Complete())

	// Explorer restarts: the whole chain is replaced by new windows.
	for _, h := range []HWND{hIconList, hDefView, hWorker, hProgman} {
		ws.destroy(h)
	}
	ws.add(140, fakeWindow{class: ShellClass, title: ShellTitle})
	ws.add(130, fakeWindow{class: WorkerClass})
	ws.add(131, fakeWindow{class: ViewClass, parent: 130})
	ws.add(132, fakeWindow{class: IconListClass, parent: 131})

	assert.Equal(t, Handles{Shell: 140, Wallpaper: 130, View: 131, Icons: 132}, loc.Locate())
	assert.Equal(t, 2, ws.spawns, "a new shell window must be asked for its workers again")
}

func TestLocateThrottlesIncompleteChain(t *testing.T) {
	ws := newFakeSystem()
	ws.add(hProgman, fakeWindow{class: ShellClass, title: ShellTitle})

	t.Run("Throttled", func(t *testing.T) {
		loc := NewLocator(ws)
		loc.retry = rate.NewLimiter(0, 0)
		before := ws.enumerations

		assert.False(t, loc.Locate().Complete())
		assert.False(t, loc.Locate().Complete())
		assert.Equal(t, before+1, ws.enumerations)
	})

	t.Run("Retried", func(t *testing.T) {
		loc := NewLocator(ws)
		loc.retry = rate.NewLimiter(rate.Inf, 1)
		loc.Locate()

		// The view shows up later, for example once the shell finished starting.
		ws.add(hDefView, fakeWindow{class: ViewClass, parent: hProgman})
		ws.add(hIconList, fakeWindow{class: IconListClass, parent: hDefView})

		assert.Equal(t, Handles{Shell: hProgman, View: hDefView, Icons: hIconList}, loc.Locate())
	})
}
