// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestCollect_SortedTree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"/vfs/dir2", "/vfs/dir1/nested"} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	for _, file := range []string{"/vfs/dir1/file.txt", "/vfs/b.txt", "/vfs/a.txt"} {
		if err := afero.WriteFile(fsys, file, nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	root, err := Collect(fsys, "/vfs")
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if root.Kind != EntryDir {
		t.Fatalf("root.Kind = %v, want EntryDir", root.Kind)
	}

	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"a.txt", "b.txt", "dir1", "dir2"}, names); diff != "" {
		t.Errorf("top-level order mismatch (-want +got):\n%s", diff)
	}

	dir1 := root.Children[2]
	if len(dir1.Children) != 2 || dir1.Children[0].Name != "file.txt" || dir1.Children[1].Name != "nested" {
		t.Errorf("dir1 children = %+v", dir1.Children)
	}
	if len(root.Children[3].Children) != 0 {
		t.Errorf("dir2 should be empty, got %+v", root.Children[3].Children)
	}
}

func TestCollect_Missing(t *testing.T) {
	if _, err := Collect(afero.NewMemMapFs(), "/nope"); err == nil {
		t.Error("Collect(/nope) should fail")
	}
}

func TestRender(t *testing.T) {
	root := &Node{
		Name: "vfs",
		Kind: EntryDir,
		Children: []*Node{
			{Name: "dir1", Kind: EntryDir, Children: []*Node{
				{Name: "file.txt"},
				{Name: "sub", Kind: EntryDir, Children: []*Node{{Name: "deep.txt"}}},
			}},
			{Name: "dir2", Kind: EntryDir},
			{Name: "link", Kind: EntrySymlink, Target: "dir1"},
		},
	}

	want := []string{
		"~/",
		"├── dir1/",
		"│   ├── file.txt",
		"│   └── sub/",
		"│       └── deep.txt",
		"├── dir2/",
		"└── link -> dir1",
	}
	if diff := cmp.Diff(want, Render("~", root)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_File(t *testing.T) {
	got := Render("~/dir1/file.txt", &Node{Name: "file.txt"})
	if diff := cmp.Diff([]string{"~/dir1/file.txt"}, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_AccessError(t *testing.T) {
	root := &Node{
		Name: "vfs",
		Kind: EntryDir,
		Children: []*Node{
			{Name: "locked", Kind: EntryDir, Err: &os.PathError{Op: "open", Path: "/vfs/locked", Err: os.ErrPermission}},
			{Name: "open", Kind: EntryDir, Children: []*Node{{Name: "f"}}},
		},
	}

	want := []string{
		"~/",
		"├── locked/ [access error: permission denied]",
		"└── open/",
		"    └── f",
	}
	if diff := cmp.Diff(want, Render("~", root)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_UnreadableDirectoryContinues(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "a-locked")
	for _, dir := range []string{locked, filepath.Join(root, "b-open")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "b-open", "f"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) }) // Let TempDir cleanup remove it

	node, err := Collect(afero.NewOsFs(), root)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	lines := Render("~", node)
	if !strings.Contains(lines[1], "a-locked/ [access error:") {
		t.Errorf("expected access error on locked dir, got %q", lines[1])
	}
	if lines[len(lines)-1] != "    └── f" {
		t.Errorf("listing should continue after the error, got %q", lines)
	}
}

func TestCollect_SymlinksNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dir"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "dir", "f"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Symlink("dir", filepath.Join(root, "loop")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	node, err := Collect(afero.NewOsFs(), root)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	want := []string{
		"~/",
		"├── dir/",
		"│   └── f",
		"└── loop -> dir",
	}
	if diff := cmp.Diff(want, Render("~", node)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestGuardTree_SymlinkTargets(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	for _, dir := range []string{filepath.Join(root, "dir"), outside} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	links := map[string]string{
		"abs":  filepath.Join(root, "dir"),
		"esc":  outside,
		"loop": "dir",
		"up":   "../outside",
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(root, name)); err != nil {
			t.Fatalf("Symlink: %v", err)
		}
	}

	g, err := NewGuard(afero.NewOsFs(), root)
	if err != nil {
		t.Fatalf("NewGuard() error: %v", err)
	}
	node, err := g.Tree(root)
	if err != nil {
		t.Fatalf("Tree() error: %v", err)
	}

	want := []string{
		"~/",
		"├── abs -> ~/dir",
		"├── dir/",
		"├── esc@",
		"├── loop -> ~/dir",
		"└── up@",
	}
	if diff := cmp.Diff(want, Render("~", node)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
	for _, line := range Render("~", node) {
		if strings.Contains(line, base) {
			t.Errorf("listing shows a host path: %q", line)
		}
	}
}
