// Package louis binds the liblouis braille translator at runtime. The shared
// library is loaded by path with purego, so no C toolchain is needed to build
// against it.
package louis

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"unicode/utf16"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ErrTranslate is returned when liblouis reports a failed translation.
var ErrTranslate = errors.New("louis: translation failed")

// maxGrow bounds how many times the output buffer is doubled.
const maxGrow = 6

// Library is a loaded liblouis. liblouis keeps global table caches, so all
// calls are serialized.
type Library struct {
	mu       sync.Mutex
	handle   uintptr
	charSize int

	version         func() string
	getTable        func(tableList string) uintptr
	charSizeFn      func() int32
	translateString func(tableList string, inbuf unsafe.Pointer, inlen *int32, outbuf unsafe.Pointer, outlen *int32, typeform unsafe.Pointer, spacing unsafe.Pointer, mode int32) int32
	free            func()
}

// Open loads the liblouis shared library at libraryPath. tablesDir, when set,
// is exported as LOUIS_TABLEPATH so tables can resolve their includes.
func Open(libraryPath, tablesDir string) (*Library, error) {
	if tablesDir != "" {
		if err := os.Setenv("LOUIS_TABLEPATH", tablesDir); err != nil {
			return nil, fmt.Errorf("set LOUIS_TABLEPATH: %w", err)
		}
	}

	handle, err := openLibrary(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", libraryPath, err)
	}

	l := &Library{handle: handle}
	bindings := []struct {
		fptr any
		name string
	}{
		{&l.version, "lou_version"},
		{&l.getTable, "lou_getTable"},
		{&l.charSizeFn, "lou_charSize"},
		{&l.translateString, "lou_translateString"},
		{&l.free, "lou_free"},
	}
	for _, b := range bindings {
		sym, err := lookupSymbol(handle, b.name)
		if err != nil {
			closeLibrary(handle)
			return nil, fmt.Errorf("resolve %s: %w", b.name, err)
		}
		purego.RegisterFunc(b.fptr, sym)
	}

	l.charSize = int(l.charSizeFn())
	if l.charSize != 2 && l.charSize != 4 {
		closeLibrary(handle)
		return nil, fmt.Errorf("unsupported widechar size %d", l.charSize)
	}
	return l, nil
}

// Version returns the liblouis version string.
func (l *Library) Version() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version()
}

// CheckTable compiles the table list and reports whether liblouis accepted it.
func (l *Library) CheckTable(tableList string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.getTable(tableList) == 0 {
		return fmt.Errorf("louis: cannot compile table %q", tableList)
	}
	return nil
}

// Translate converts text to braille cells using tableList. The result is in
// the table's display encoding, usually ASCII braille.
func (l *Library) Translate(tableList, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	runes := []rune(text)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.charSize == 2 {
		out, err := translateUnits(l, tableList, utf16.Encode(runes))
		if err != nil {
			return "", err
		}
		return string(utf16.Decode(out)), nil
	}

	in := make([]uint32, len(runes))
	for i, r := range runes {
		in[i] = uint32(r)
	}
	out, err := translateUnits(l, tableList, in)
	if err != nil {
		return "", err
	}
	res := make([]rune, len(out))
	for i, u := range out {
		res[i] = rune(u)
	}
	return string(res), nil
}

// translateUnits calls lou_translateString, doubling the output buffer until
// all input is consumed. Contracted braille can be longer than its print.
func translateUnits[T uint16 | uint32](l *Library, tableList string, in []T) ([]T, error) {
	capacity := 2*len(in) + 16
	for attempt := 0; attempt <= maxGrow; attempt++ {
		out := make([]T, capacity)
		inlen := int32(len(in))
		outlen := int32(capacity)

		ok := l.translateString(tableList,
			unsafe.Pointer(&in[0]), &inlen,
			unsafe.Pointer(&out[0]), &outlen,
			nil, nil, 0)
		runtime.KeepAlive(in)
		runtime.KeepAlive(out)

		if ok == 0 {
			return nil, ErrTranslate
		}
		if int(inlen) >= len(in) {
			return out[:outlen], nil
		}
		capacity *= 2
	}
	return nil, fmt.Errorf("%w: output exceeds %d cells", ErrTranslate, capacity)
}

// Close releases liblouis' table caches and unloads the library.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == 0 {
		return nil
	}
	l.free()
	err := closeLibrary(l.handle)
	l.handle = 0
	return err
}
