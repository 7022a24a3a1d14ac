//go:build !windows

package dispatch

type queueThread struct {
	*Queue
}

func (queueThread) Owner() uintptr { return 0 }

// NewUIThread starts the platform UI thread. Outside Windows there is no native loop to pump.
func NewUIThread() (UIThread, error) {
	return queueThread{NewQueue()}, nil
}
