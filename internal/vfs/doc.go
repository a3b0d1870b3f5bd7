// SPDX-License-Identifier: MPL-2.0

// Package vfs confines path resolution to a directory on disk (the VFS root)
// and builds listings of the trees below it.
//
// Guard resolves user-supplied paths against a current directory and rejects
// anything that would leave the root, either lexically through ".." segments
// and absolute paths or physically through symlinks. Collect and Render are
// kept separate so a tree can be inspected without formatting it.
package vfs
