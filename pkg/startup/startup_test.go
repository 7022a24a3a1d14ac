package startup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	values map[string]string
	err    error
}

func newMapStore() *mapStore { return &mapStore{values: map[string]string{}} }

func (s *mapStore) Value(name string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.values[name]
	return v, ok, nil
}

func (s *mapStore) SetValue(name, value string) error {
	if s.err != nil {
		return s.err
	}
	s.values[name] = value
	return nil
}

func (s *mapStore) DeleteValue(name string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.values, name)
	return nil
}

func TestEnableDisable(t *testing.T) {
	store := newMapStore()
	r := NewWithStore(store)
	exe := `C:\Program Files\Fences\Fences.exe`

	assert.False(t, r.Enabled())

	require.NoError(t, r.Enable(exe))
	assert.True(t, r.Enabled())
	assert.Equal(t, `"C:\Program Files\Fences\Fences.exe"`, store.values["Fences"])
	assert.True(t, r.Points(`c:\program files\fences\FENCES.exe`))
	assert.False(t, r.Points(`C:\Other\Fences.exe`))

	require.NoError(t, r.Disable())
	assert.False(t, r.Enabled())
	require.NoError(t, r.Disable())
}

func TestEnableRejectsEmptyPath(t *testing.T) {
	r := NewWithStore(newMapStore())
	assert.Error(t, r.Enable("  "))
}

func TestStoreErrors(t *testing.T) {
	store := newMapStore()
	store.err = errors.New("access denied")
	r := NewWithStore(store)

	assert.False(t, r.Enabled())
	assert.ErrorIs(t, r.Enable(`C:\a.exe`), store.err)
	assert.ErrorIs(t, r.Disable(), store.err)
}

func TestSync(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		enabled  bool
		want     string
		present  bool
	}{
		{name: "Enable Missing", enabled: true, want: `"C:\new\Fences.exe"`, present: true},
		{name: "Repoint Stale", existing: `"C:\old\Fences.exe"`, enabled: true, want: `"C:\new\Fences.exe"`, present: true},
		{name: "Keep Current", existing: `"C:\new\Fences.exe" --tray`, enabled: true, want: `"C:\new\Fences.exe" --tray`, present: true},
		{name: "Disable", existing: `"C:\old\Fences.exe"`, enabled: false},
		{name: "Already Disabled", enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMapStore()
			if tt.existing != "" {
				store.values[ValueName] = tt.existing
			}

			require.NoError(t, NewWithStore(store).Sync(tt.enabled, `C:\new\Fences.exe`))

			v, ok := store.values[ValueName]
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, `C:\a b\x.exe`, unquote(`"C:\a b\x.exe" --flag`))
	assert.Equal(t, `C:\x.exe`, unquote(` C:\x.exe `))
	assert.Equal(t, `"broken`, unquote(`"broken`))
}
