//go:build !darwin && !freebsd && !linux && !windows

package louis

import (
	"errors"
	"runtime"
)

var errNoLoader = errors.New("louis: dynamic loading not supported on " + runtime.GOOS)

func openLibrary(string) (uintptr, error) { return 0, errNoLoader }

func lookupSymbol(uintptr, string) (uintptr, error) { return 0, errNoLoader }

func closeLibrary(uintptr) error { return errNoLoader }
