//go:build !windows

package startup

type unsupportedStore struct{}

func newStore() Store { return unsupportedStore{} }

func (unsupportedStore) Value(string) (string, bool, error) { return "", false, nil }
func (unsupportedStore) SetValue(string, string) error      { return ErrUnsupported }
func (unsupportedStore) DeleteValue(string) error           { return nil }
