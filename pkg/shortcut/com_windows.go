//go:build windows

package shortcut

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/dixieflatline76/Fences/pkg/win32"
	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	clsidShellLink  = ole.NewGUID("{00021401-0000-0000-C000-000000000046}")
	iidIShellLinkW  = ole.NewGUID("{000214F9-0000-0000-C000-000000000046}")
	iidIPersistFile = ole.NewGUID("{0000010B-0000-0000-C000-000000000046}")
)

// IShellLinkW vtable slots.
const (
	slGetPath             = 3
	slGetIDList           = 4
	slSetIDList           = 5
	slGetDescription      = 6
	slSetDescription      = 7
	slGetWorkingDirectory = 8
	slSetWorkingDirectory = 9
	slGetArguments        = 10
	slSetArguments        = 11
	slGetIconLocation     = 16
	slSetIconLocation     = 17
	slSetPath             = 20
)

// IPersistFile vtable slots.
const (
	pfLoad = 5
	pfSave = 6
)

const (
	stgmRead    = 0
	maxLinkText = 1024
)

// shellLink is a CLSID_ShellLink instance with its IPersistFile view.
type shellLink struct {
	link *ole.IUnknown
	file *ole.IUnknown
}

func openShellLink() (*shellLink, error) {
	link, err := ole.CreateInstance(clsidShellLink, iidIShellLinkW)
	if err != nil {
		return nil, fmt.Errorf("creating ShellLink: %w", err)
	}
	file, err := link.QueryInterface(iidIPersistFile)
	if err != nil {
		link.Release()
		return nil, fmt.Errorf("querying IPersistFile: %w", err)
	}
	return &shellLink{link: link, file: &file.IUnknown}, nil
}

func (s *shellLink) Release() {
	s.file.Release()
	s.link.Release()
}

func call(obj *ole.IUnknown, slot int, args ...uintptr) uintptr {
	vtbl := (*[32]uintptr)(unsafe.Pointer(obj.RawVTable))
	hr, _, _ := syscall.SyscallN(vtbl[slot], append([]uintptr{uintptr(unsafe.Pointer(obj))}, args...)...)
	return hr
}

func (s *shellLink) check(slot int, args ...uintptr) error {
	if hr := call(s.link, slot, args...); win32.Failed(hr) {
		return ole.NewError(hr)
	}
	return nil
}

func (s *shellLink) setString(slot int, value string) error {
	p, err := windows.UTF16PtrFromString(value)
	if err != nil {
		return err
	}
	return s.check(slot, uintptr(unsafe.Pointer(p)))
}

func (s *shellLink) getString(slot int, extra ...uintptr) string {
	buf := make([]uint16, maxLinkText)
	args := append([]uintptr{uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf))}, extra...)
	if win32.Failed(call(s.link, slot, args...)) {
		return ""
	}
	return windows.UTF16ToString(buf)
}

func (s *shellLink) load(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	if hr := call(s.file, pfLoad, uintptr(unsafe.Pointer(p)), stgmRead); win32.Failed(hr) {
		return ole.NewError(hr)
	}
	return nil
}

func (s *shellLink) save(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	if hr := call(s.file, pfSave, uintptr(unsafe.Pointer(p)), 1); win32.Failed(hr) {
		return ole.NewError(hr)
	}
	return nil
}

// withShellLink runs fn with a fresh link object on a COM-initialized thread.
func withShellLink(fn func(*shellLink) error) error {
	release, err := win32.ComInit()
	if err != nil {
		return err
	}
	defer release()

	link, err := openShellLink()
	if err != nil {
		return err
	}
	defer link.Release()
	return fn(link)
}

type comBackend struct{}

func newNativeBackend() Backend {
	return comBackend{}
}

func (comBackend) Save(path string, d Descriptor) error {
	return withShellLink(func(link *shellLink) error {
		if IsVirtual(d.Target) {
			pidl, err := win32.ParseDisplayName(d.Target)
			if err != nil {
				return err
			}
			defer win32.FreeIDList(pidl)
			if err := link.check(slSetIDList, pidl); err != nil {
				return fmt.Errorf("SetIDList: %w", err)
			}
		} else {
			if err := link.setString(slSetPath, d.Target); err != nil {
				return fmt.Errorf("SetPath: %w", err)
			}
			if d.WorkingDirectory != "" {
				if err := link.setString(slSetWorkingDirectory, d.WorkingDirectory); err != nil {
					return fmt.Errorf("SetWorkingDirectory: %w", err)
				}
			}
		}

		if d.Arguments != "" {
			if err := link.setString(slSetArguments, d.Arguments); err != nil {
				return fmt.Errorf("SetArguments: %w", err)
			}
		}
		if d.Description != "" {
			if err := link.setString(slSetDescription, d.Description); err != nil {
				return fmt.Errorf("SetDescription: %w", err)
			}
		}
		if d.IconLocation != "" {
			p, err := windows.UTF16PtrFromString(d.IconLocation)
			if err != nil {
				return err
			}
			if err := link.check(slSetIconLocation, uintptr(unsafe.Pointer(p)), uintptr(d.IconIndex)); err != nil {
				return fmt.Errorf("SetIconLocation: %w", err)
			}
		}
		return link.save(path)
	})
}

func (comBackend) Load(path string) (Descriptor, error) {
	var d Descriptor
	err := withShellLink(func(link *shellLink) error {
		if err := link.load(path); err != nil {
			return err
		}
		// Links bound to an IDList only report S_FALSE and an empty buffer here.
		d.Target = link.getString(slGetPath, 0, 0)
		d.Arguments = link.getString(slGetArguments)
		d.WorkingDirectory = link.getString(slGetWorkingDirectory)
		d.Description = link.getString(slGetDescription)

		var index int32
		d.IconLocation = link.getString(slGetIconLocation, uintptr(unsafe.Pointer(&index)))
		d.IconIndex = index
		return nil
	})
	return d, err
}

// ReadIDList loads the link at path and hands its stored PIDL to fn. The PIDL is freed when fn returns.
func ReadIDList(path string, fn func(pidl uintptr) error) error {
	return withShellLink(func(link *shellLink) error {
		if err := link.load(path); err != nil {
			return err
		}
		var pidl uintptr
		if err := link.check(slGetIDList, uintptr(unsafe.Pointer(&pidl))); err != nil {
			return err
		}
		if pidl == 0 {
			return fmt.Errorf("%s has no IDList", path)
		}
		defer win32.FreeIDList(pidl)
		return fn(pidl)
	})
}
