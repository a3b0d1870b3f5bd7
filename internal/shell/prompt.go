// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"fmt"
	"os"
	"os/user"
)

// Prompt renders "<user>@<host>:<vfs-relative-cwd>$ ".
type Prompt struct {
	User string
	Host string
}

// DefaultPrompt uses the current OS user and hostname, with fallbacks when
// either cannot be determined.
func DefaultPrompt() Prompt {
	p := Prompt{User: "user", Host: "localhost"}
	if u, err := user.Current(); err == nil && u.Username != "" {
		p.User = u.Username
	} else if name := os.Getenv("USER"); name != "" {
		p.User = name
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		p.Host = host
	}
	return p
}

// Render formats the prompt for the current directory of s.
func (p Prompt) Render(s *Session) string {
	return fmt.Sprintf("%s@%s:%s$ ", p.User, p.Host, s.DisplayCwd())
}
