// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves vfsh sessions over SSH using the Wish library.
//
// Every connection gets its own shell session confined to the shared VFS
// root. An exec request (`ssh host ls dir1`) runs that single line and exits
// with its status; a shell request replays the startup script and then runs
// an interactive loop on the client's PTY.
package sshserver
