// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// HomeLabel is how the VFS root is shown in prompts and listings.
const HomeLabel = "~"

// Guard resolves paths inside a VFS root. It is immutable after NewGuard and
// safe to share between sessions.
type Guard struct {
	fs   afero.Fs
	root string

	// Set only for the OS filesystem, where symlinks can point anywhere.
	evalSymlinks func(string) (string, error)
	realRoot     string
}

// NewGuard validates root on fs and returns a Guard for it. The root is made
// absolute and cleaned; it must exist and be a directory.
func NewGuard(fs afero.Fs, root string) (*Guard, error) {
	if strings.TrimSpace(root) == "" {
		return nil, &InvalidRootError{Root: root, Cause: errors.New("path is empty")}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Cause: err}
	}

	info, err := fs.Stat(abs)
	if err != nil {
		return nil, &InvalidRootError{Root: abs, Cause: err}
	}
	if !info.IsDir() {
		return nil, &InvalidRootError{Root: abs, Cause: errors.New("not a directory")}
	}

	g := &Guard{fs: fs, root: abs}

	if _, ok := fs.(*afero.OsFs); ok {
		real, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, &InvalidRootError{Root: abs, Cause: err}
		}
		g.evalSymlinks = filepath.EvalSymlinks
		g.realRoot = real
	}

	return g, nil
}

// Root returns the absolute VFS root.
func (g *Guard) Root() string {
	return g.root
}

// Fs returns the filesystem the guard resolves against.
func (g *Guard) Fs() afero.Fs {
	return g.fs
}

// Contains reports whether path is the root or a path-segment descendant of
// it. path must be absolute and clean.
func (g *Guard) Contains(path string) bool {
	return within(g.root, path)
}

// Resolve turns input into an absolute path inside the root. Relative input
// is joined onto currentDir; empty input names the root. Existence is not
// checked, but a path whose longest existing prefix leads outside the root
// through a symlink is rejected whether or not the rest of it exists.
func (g *Guard) Resolve(currentDir, input string) (string, error) {
	if input == "" {
		return g.root, nil
	}

	candidate := input
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(currentDir, candidate)
	}
	candidate = filepath.Clean(candidate)

	if !within(g.root, candidate) {
		return "", &OutOfBoundsError{Path: input, Resolved: candidate}
	}

	if g.evalSymlinks != nil {
		if real, ok := g.evalExisting(candidate); ok && !within(g.realRoot, real) {
			return "", &OutOfBoundsError{Path: input, Resolved: real}
		}
	}

	return candidate, nil
}

// evalExisting evaluates the symlinks of the longest prefix of path that
// exists. It stops at the root, which NewGuard has already evaluated.
func (g *Guard) evalExisting(path string) (string, bool) {
	for p := path; within(g.root, p); p = filepath.Dir(p) {
		if real, err := g.evalSymlinks(p); err == nil {
			return real, true
		}
		if p == g.root {
			break
		}
	}
	return "", false
}

// IsDir reports whether path exists and is a directory (following symlinks).
func (g *Guard) IsDir(path string) bool {
	info, err := g.fs.Stat(path)
	return err == nil && info.IsDir()
}

// Display renders an absolute path relative to the root: "~" for the root
// itself, "~/a/b" below it. Paths outside the root are returned unchanged.
func (g *Guard) Display(path string) string {
	rel, err := filepath.Rel(g.root, path)
	if err != nil || !within(g.root, filepath.Clean(path)) {
		return path
	}
	if rel == "." {
		return HomeLabel
	}
	return HomeLabel + "/" + filepath.ToSlash(rel)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
