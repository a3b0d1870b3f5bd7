// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

func newMemGuard(t *testing.T) *Guard {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"/vfs/dir1", "/vfs/dir2", "/vfs-root-evil"} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", dir, err)
		}
	}
	if err := afero.WriteFile(fsys, "/vfs/dir1/file.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	g, err := NewGuard(fsys, "/vfs")
	if err != nil {
		t.Fatalf("NewGuard() error: %v", err)
	}
	return g
}

func TestNewGuard_InvalidRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/file", []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for _, root := range []string{"", "  ", "/missing", "/file"} {
		t.Run(root, func(t *testing.T) {
			_, err := NewGuard(fsys, root)
			if err == nil {
				t.Fatalf("NewGuard(%q) should fail", root)
			}
			if !errors.Is(err, ErrInvalidRoot) {
				t.Errorf("NewGuard(%q) error = %v, want ErrInvalidRoot", root, err)
			}
		})
	}
}

func TestGuard_Resolve(t *testing.T) {
	g := newMemGuard(t)

	tests := []struct {
		name    string
		cwd     string
		input   string
		want    string
		wantOOB bool
	}{
		{name: "empty is root", cwd: "/vfs/dir1", input: "", want: "/vfs"},
		{name: "relative child", cwd: "/vfs", input: "dir1", want: "/vfs/dir1"},
		{name: "dot", cwd: "/vfs/dir1", input: ".", want: "/vfs/dir1"},
		{name: "dotdot inside", cwd: "/vfs/dir1", input: "..", want: "/vfs"},
		{name: "sibling", cwd: "/vfs/dir1", input: "../dir2", want: "/vfs/dir2"},
		{name: "absolute inside", cwd: "/vfs", input: "/vfs/dir2", want: "/vfs/dir2"},
		{name: "redundant segments", cwd: "/vfs", input: "dir1/./../dir1//", want: "/vfs/dir1"},
		{name: "missing paths resolve", cwd: "/vfs", input: "nope/deeper", want: "/vfs/nope/deeper"},
		{name: "dotdot from root", cwd: "/vfs", input: "..", wantOOB: true},
		{name: "deep escape", cwd: "/vfs/dir1", input: "../../..", wantOOB: true},
		{name: "escape and return", cwd: "/vfs", input: "../vfs/dir1", want: "/vfs/dir1"},
		{name: "absolute outside", cwd: "/vfs", input: "/etc", wantOOB: true},
		{name: "filesystem root", cwd: "/vfs", input: "/", wantOOB: true},
		{name: "prefix sibling", cwd: "/vfs", input: "/vfs-root-evil", wantOOB: true},
		{name: "relative prefix sibling", cwd: "/vfs", input: "../vfs-root-evil", wantOOB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Resolve(tt.cwd, tt.input)
			if tt.wantOOB {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Fatalf("Resolve(%q, %q) error = %v, want ErrOutOfBounds", tt.cwd, tt.input, err)
				}
				var oob *OutOfBoundsError
				if !errors.As(err, &oob) || oob.Path != tt.input {
					t.Errorf("OutOfBoundsError.Path = %v, want %q", oob, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q, %q) error: %v", tt.cwd, tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.cwd, tt.input, got, tt.want)
			}
		})
	}
}

func TestGuard_ContainsSegmentWise(t *testing.T) {
	g := newMemGuard(t)

	tests := map[string]bool{
		"/vfs":            true,
		"/vfs/dir1":       true,
		"/vfs/..hidden":   true,
		"/vfs-root-evil":  false,
		"/vfsx":           false,
		"/":               false,
		"/other/vfs/dir1": false,
	}
	for path, want := range tests {
		if got := g.Contains(path); got != want {
			t.Errorf("Contains(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestGuard_Display(t *testing.T) {
	g := newMemGuard(t)

	tests := map[string]string{
		"/vfs":           "~",
		"/vfs/dir1":      "~/dir1",
		"/vfs/dir1/a/b":  "~/dir1/a/b",
		"/vfs-root-evil": "/vfs-root-evil",
	}
	for path, want := range tests {
		if got := g.Display(path); got != want {
			t.Errorf("Display(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestGuard_IsDir(t *testing.T) {
	g := newMemGuard(t)

	if !g.IsDir("/vfs/dir1") {
		t.Error("IsDir(/vfs/dir1) = false, want true")
	}
	if g.IsDir("/vfs/dir1/file.txt") {
		t.Error("IsDir(file.txt) = true, want false")
	}
	if g.IsDir("/vfs/missing") {
		t.Error("IsDir(missing) = true, want false")
	}
}

func TestGuard_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	for _, dir := range []string{filepath.Join(root, "inner"), outside} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "inner"), filepath.Join(root, "shortcut")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	g, err := NewGuard(afero.NewOsFs(), root)
	if err != nil {
		t.Fatalf("NewGuard() error: %v", err)
	}

	// A missing leaf must not turn an escape into "not found", or listings
	// would reveal which files exist outside the root.
	for _, input := range []string{"escape", "escape/nosuch", "escape/a/b", "inner/../escape/nosuch"} {
		if _, err := g.Resolve(g.Root(), input); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Resolve(%s) error = %v, want ErrOutOfBounds", input, err)
		}
	}
	for _, input := range []string{"shortcut/missing", "missing/deeper"} {
		if _, err := g.Resolve(g.Root(), input); err != nil {
			t.Errorf("Resolve(%s) error = %v, want nil", input, err)
		}
	}

	got, err := g.Resolve(g.Root(), "shortcut")
	if err != nil {
		t.Fatalf("Resolve(shortcut) error: %v", err)
	}
	if want := filepath.Join(g.Root(), "shortcut"); got != want {
		t.Errorf("Resolve(shortcut) = %q, want %q", got, want)
	}
}

func TestGuard_SymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	base := t.TempDir()
	real := filepath.Join(base, "real")
	if err := os.MkdirAll(filepath.Join(real, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	g, err := NewGuard(afero.NewOsFs(), link)
	if err != nil {
		t.Fatalf("NewGuard() error: %v", err)
	}

	got, err := g.Resolve(g.Root(), "sub")
	if err != nil {
		t.Fatalf("Resolve(sub) error: %v", err)
	}
	if got != filepath.Join(link, "sub") {
		t.Errorf("Resolve(sub) = %q, want path below the configured root", got)
	}
}
