// SPDX-License-Identifier: MPL-2.0

// Package shell implements the vfsh command interpreter.
//
// An Interpreter owns one Session and turns single input lines into Results:
// the line is tokenized, the command name is looked up in a fixed table and
// the handler runs against the session. Paths are always resolved through a
// vfs.Guard, so no command can observe or move outside the VFS root.
//
// ScriptRunner replays a startup script through the same Execute path.
package shell
