// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for fatal startup failures.
//
// An ActionableError names the operation that failed, the resource involved
// and hints for fixing it. The Issue catalogue adds longer Markdown guides,
// rendered with glamour, for the failures a user is most likely to hit
// (bad VFS root, unreadable config, missing startup script).
package issue
