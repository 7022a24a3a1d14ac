//go:build windows

package win32

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")

	procSHParseDisplayName = shell32.NewProc("SHParseDisplayName")
	procSHGetFileInfoW     = shell32.NewProc("SHGetFileInfoW")
	procExtractIconExW     = shell32.NewProc("ExtractIconExW")
	procShellExecuteW      = shell32.NewProc("ShellExecuteW")

	procDestroyIcon = user32.NewProc("DestroyIcon")
	procDrawIconEx  = user32.NewProc("DrawIconEx")
	procGetDC       = user32.NewProc("GetDC")
	procReleaseDC   = user32.NewProc("ReleaseDC")

	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
)

// Shell constants.
const (
	SHGFI_ICON              = 0x000000100
	SHGFI_LARGEICON         = 0x000000000
	SHGFI_PIDL              = 0x000000008
	SHGFI_USEFILEATTRIBUTES = 0x000000010

	FILE_ATTRIBUTE_NORMAL = 0x80

	DI_MASK   = 0x0001
	DI_NORMAL = 0x0003

	SW_SHOWNORMAL = 1
)

const (
	sFalse          = 0x00000001
	rpcEChangedMode = 0x80010106
)

// ComInit initializes COM as a single-threaded apartment on a locked OS thread. The returned release
// undoes both and must run on the same goroutine.
func ComInit() (release func(), err error) {
	runtime.LockOSThread()
	err = ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED)
	switch code := oleCode(err); {
	case err == nil || code == sFalse:
		return func() {
			ole.CoUninitialize()
			runtime.UnlockOSThread()
		}, nil
	case code == rpcEChangedMode:
		// Someone else owns the apartment model on this thread; their initialization serves us too.
		return runtime.UnlockOSThread, nil
	}
	runtime.UnlockOSThread()
	return nil, fmt.Errorf("initializing COM: %w", err)
}

func oleCode(err error) uintptr {
	var oe *ole.OleError
	if errors.As(err, &oe) {
		return oe.Code()
	}
	return 0
}

// Failed reports whether an HRESULT denotes failure.
func Failed(hr uintptr) bool {
	return int32(hr) < 0
}

// ParseDisplayName turns a shell namespace token such as "::{CLSID}" or "shell:ControlPanelFolder"
// into an absolute PIDL. The caller frees it with FreeIDList.
func ParseDisplayName(name string) (uintptr, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	var pidl uintptr
	hr, _, _ := procSHParseDisplayName.Call(uintptr(unsafe.Pointer(p)), 0, uintptr(unsafe.Pointer(&pidl)), 0, 0)
	if Failed(hr) || pidl == 0 {
		return 0, fmt.Errorf("parsing display name %q: %w", name, ole.NewError(hr))
	}
	return pidl, nil
}

// FreeIDList releases a PIDL allocated by the shell.
func FreeIDList(pidl uintptr) {
	if pidl != 0 {
		ole.CoTaskMemFree(pidl)
	}
}

type shFileInfo struct {
	HIcon         windows.Handle
	IIcon         int32
	DwAttributes  uint32
	SzDisplayName [260]uint16
	SzTypeName    [80]uint16
}

// FileIcon returns the large shell icon for a path. When the path does not exist the lookup goes by
// its extension. The caller destroys the icon.
func FileIcon(path string, exists bool) windows.Handle {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0
	}
	flags := uintptr(SHGFI_ICON | SHGFI_LARGEICON)
	var attrs uintptr
	if !exists {
		flags |= SHGFI_USEFILEATTRIBUTES
		attrs = FILE_ATTRIBUTE_NORMAL
	}
	var info shFileInfo
	procSHGetFileInfoW.Call(uintptr(unsafe.Pointer(p)), attrs, uintptr(unsafe.Pointer(&info)), unsafe.Sizeof(info), flags)
	return info.HIcon
}

// IDListIcon returns the large shell icon for a PIDL. The caller destroys the icon.
func IDListIcon(pidl uintptr) windows.Handle {
	if pidl == 0 {
		return 0
	}
	var info shFileInfo
	procSHGetFileInfoW.Call(pidl, 0, uintptr(unsafe.Pointer(&info)), unsafe.Sizeof(info), SHGFI_ICON|SHGFI_LARGEICON|SHGFI_PIDL)
	return info.HIcon
}

// ExtractIcon returns the large icon at index in an icon, executable or library file.
func ExtractIcon(file string, index int32) windows.Handle {
	p, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return 0
	}
	var large windows.Handle
	n, _, _ := procExtractIconExW.Call(uintptr(unsafe.Pointer(p)), uintptr(index), uintptr(unsafe.Pointer(&large)), 0, 1)
	if n == 0 || n == ^uintptr(0) {
		return 0
	}
	return large
}

// DestroyIcon frees an icon handle.
func DestroyIcon(h windows.Handle) {
	if h != 0 {
		procDestroyIcon.Call(uintptr(h))
	}
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// RenderIcon draws an icon into size×size 32-bit top-down buffers and returns the BGRA pixels of its
// image and of its AND mask. The mask is black where the icon is opaque and white where it is not.
func RenderIcon(icon windows.Handle, size int32) (pixels, mask []byte, err error) {
	if pixels, err = drawIcon(icon, size, DI_NORMAL); err != nil {
		return nil, nil, err
	}
	if mask, err = drawIcon(icon, size, DI_MASK); err != nil {
		return nil, nil, err
	}
	return pixels, mask, nil
}

func drawIcon(icon windows.Handle, size int32, flags uintptr) ([]byte, error) {
	screen, _, _ := procGetDC.Call(0)
	defer procReleaseDC.Call(0, screen)

	dc, _, _ := procCreateCompatibleDC.Call(screen)
	if dc == 0 {
		return nil, errors.New("CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(dc)

	hdr := bitmapInfoHeader{Width: size, Height: -size, Planes: 1, BitCount: 32}
	hdr.Size = uint32(unsafe.Sizeof(hdr))
	var bits unsafe.Pointer
	bmp, _, _ := procCreateDIBSection.Call(dc, uintptr(unsafe.Pointer(&hdr)), 0, uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bmp == 0 || bits == nil {
		return nil, errors.New("CreateDIBSection failed")
	}
	defer DeleteObject(windows.Handle(bmp))

	old, _, _ := procSelectObject.Call(dc, bmp)
	defer procSelectObject.Call(dc, old)

	r, _, _ := procDrawIconEx.Call(dc, 0, 0, uintptr(icon), uintptr(size), uintptr(size), 0, 0, flags)
	if r == 0 {
		return nil, errors.New("DrawIconEx failed")
	}

	n := int(size) * int(size) * 4
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(bits), n))
	return out, nil
}

// ShellExecute opens target with its default verb.
func ShellExecute(target, args, dir string) error {
	verb, _ := windows.UTF16PtrFromString("open")
	file, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	var a, d *uint16
	if args != "" {
		a, _ = windows.UTF16PtrFromString(args)
	}
	if dir != "" {
		d, _ = windows.UTF16PtrFromString(dir)
	}
	r, _, _ := procShellExecuteW.Call(0, uintptr(unsafe.Pointer(verb)), uintptr(unsafe.Pointer(file)),
		uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(d)), SW_SHOWNORMAL)
	if r <= 32 {
		return fmt.Errorf("ShellExecute %q failed with code %d", target, r)
	}
	return nil
}
