// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const (
	// EntryFile is a regular file (or anything that is not a dir or symlink).
	EntryFile EntryKind = iota
	// EntryDir is a directory.
	EntryDir
	// EntrySymlink is a symbolic link; links are listed, never followed.
	EntrySymlink
)

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	indentMid     = "│   "
	indentLast    = "    "
)

type (
	// EntryKind classifies a Node.
	EntryKind int

	// Node is one entry of a collected tree.
	Node struct {
		Name     string
		Kind     EntryKind
		Target   string // symlink target; see Guard.Tree
		Children []*Node
		// Err is set when a directory could not be read; Children is empty.
		Err error
	}
)

// Collect builds the tree rooted at path. The root itself is followed if it
// is a symlink; links below it are recorded but not descended into. Read
// failures of subdirectories are stored on their node instead of aborting.
func Collect(fsys afero.Fs, path string) (*Node, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}

	root := &Node{Name: filepath.Base(path), Kind: EntryFile}
	if info.IsDir() {
		root.Kind = EntryDir
		collectChildren(fsys, path, root)
	}
	return root, nil
}

func collectChildren(fsys afero.Fs, dir string, parent *Node) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		parent.Err = err
		return
	}

	slices.SortFunc(infos, func(a, b os.FileInfo) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for _, info := range infos {
		child := &Node{Name: info.Name(), Kind: EntryFile}
		full := filepath.Join(dir, info.Name())

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			child.Kind = EntrySymlink
			if lr, ok := fsys.(afero.LinkReader); ok {
				if target, err := lr.ReadlinkIfPossible(full); err == nil {
					child.Target = target
				}
			}
		case info.IsDir():
			child.Kind = EntryDir
			collectChildren(fsys, full, child)
		}

		parent.Children = append(parent.Children, child)
	}
}

// Tree collects the tree at path like Collect, then rewrites symlink targets
// so no host path is shown: targets inside the root take their "~" form and
// targets outside it are cleared.
func (g *Guard) Tree(path string) (*Node, error) {
	node, err := Collect(g.fs, path)
	if err != nil {
		return nil, err
	}
	g.displayTargets(path, node)
	return node, nil
}

func (g *Guard) displayTargets(dir string, parent *Node) {
	for _, child := range parent.Children {
		switch child.Kind {
		case EntryDir:
			g.displayTargets(filepath.Join(dir, child.Name), child)
		case EntrySymlink:
			child.Target = g.displayTarget(dir, child.Target)
		}
	}
}

func (g *Guard) displayTarget(dir, target string) string {
	if target == "" {
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	target = filepath.Clean(target)

	switch {
	case within(g.root, target):
		return g.Display(target)
	case g.realRoot != "" && within(g.realRoot, target):
		rel, err := filepath.Rel(g.realRoot, target)
		if err != nil {
			return ""
		}
		return g.Display(filepath.Join(g.root, rel))
	}
	return ""
}

// Render formats a collected tree. The first line is label (with a trailing
// slash for directories); every descendant is prefixed with a branch
// connector that distinguishes the last child of a directory.
func Render(label string, root *Node) []string {
	first := label
	if root.Kind == EntryDir && !strings.HasSuffix(first, "/") {
		first += "/"
	}
	lines := []string{first + errorSuffix(root)}
	return renderChildren(lines, root, "")
}

func renderChildren(lines []string, n *Node, prefix string) []string {
	for i, child := range n.Children {
		connector, indent := connectorMid, indentMid
		if i == len(n.Children)-1 {
			connector, indent = connectorLast, indentLast
		}
		lines = append(lines, prefix+connector+entryName(child)+errorSuffix(child))
		if child.Kind == EntryDir {
			lines = renderChildren(lines, child, prefix+indent)
		}
	}
	return lines
}

func entryName(n *Node) string {
	switch n.Kind {
	case EntryDir:
		return n.Name + "/"
	case EntrySymlink:
		if n.Target != "" {
			return n.Name + " -> " + n.Target
		}
		return n.Name + "@"
	default:
		return n.Name
	}
}

func errorSuffix(n *Node) string {
	if n.Err == nil {
		return ""
	}
	reason := n.Err
	var pathErr *fs.PathError
	if errors.As(n.Err, &pathErr) {
		reason = pathErr.Err
	}
	return " [access error: " + reason.Error() + "]"
}
