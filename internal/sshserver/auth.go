// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	gossh "golang.org/x/crypto/ssh"
)

// authOptions restricts logins to the authorized keys file when one is
// configured and otherwise lets every client in.
func (s *Server) authOptions() []ssh.Option {
	if s.cfg.AuthorizedKeysPath != "" {
		return []ssh.Option{wish.WithAuthorizedKeys(s.cfg.AuthorizedKeysPath)}
	}

	s.logger.Warn("no authorized keys configured, accepting every client", "address", s.cfg.Address)
	return []ssh.Option{
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithKeyboardInteractiveAuth(func(ssh.Context, gossh.KeyboardInteractiveChallenge) bool { return true }),
	}
}
