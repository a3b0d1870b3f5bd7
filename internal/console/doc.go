// SPDX-License-Identifier: MPL-2.0

// Package console drives an interpreter from a line-oriented terminal: it
// shows the prompt, reads one line at a time, prints the result and stops on
// end of input or exit. The same loop serves the local terminal and SSH
// shell sessions.
package console
