// Package preflight verifies the filesystem preconditions trovekeep
// depends on before any component starts mutating state.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"trovekeep/internal/services"
)

// Result captures the outcome of a single environment check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// RequireDirectory returns a filesystem error when the directory is missing,
// not a directory, or not writable. Used by components whose construction
// treats the directory as a hard precondition.
func RequireDirectory(component, path string) error {
	result := CheckDirectoryAccess(component, path)
	if result.Passed {
		return nil
	}
	return services.Wrap(services.ErrFilesystem, component, "require directory", result.Detail, nil)
}
