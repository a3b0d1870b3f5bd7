// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSession_ConfigIsCopied(t *testing.T) {
	in, _ := newTestInterpreter(t)
	s := in.Session()

	cfg := s.Config()
	cfg[ConfigKeyVFS] = "/elsewhere"
	if got := s.Config()[ConfigKeyVFS]; got != testRoot {
		t.Errorf("Config() exposed internal state: vfs = %q", got)
	}
}

func TestSession_ChdirRejectsOutside(t *testing.T) {
	in, _ := newTestInterpreter(t)
	s := in.Session()

	if s.chdir("/vfs-root-evil") {
		t.Error("chdir outside the root should be refused")
	}
	if s.Cwd() != testRoot {
		t.Errorf("Cwd() = %q", s.Cwd())
	}
}

func TestConfigTable_Keys(t *testing.T) {
	table := ConfigTable{"vfs": "a", "script": "b", "alpha": "c"}
	if diff := cmp.Diff([]string{"alpha", "script", "vfs"}, table.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrompt_Render(t *testing.T) {
	in, _ := newTestInterpreter(t)
	p := Prompt{User: "alice", Host: "box"}

	if got := p.Render(in.Session()); got != "alice@box:~$ " {
		t.Errorf("Render() = %q", got)
	}
	mustRun(t, in, "cd dir1")
	if got := p.Render(in.Session()); got != "alice@box:~/dir1$ " {
		t.Errorf("Render() = %q", got)
	}
}

func TestDefaultPrompt(t *testing.T) {
	p := DefaultPrompt()
	if p.User == "" || p.Host == "" {
		t.Errorf("DefaultPrompt() = %+v, want non-empty user and host", p)
	}
}

func TestErrorKind_String(t *testing.T) {
	kinds := []ErrorKind{SyntaxError, UnknownCommand, UsageError, OutOfBoundsError, NotFound, ConfigError, ScriptOpenError}
	seen := make(map[string]bool)
	for _, k := range kinds {
		name := k.String()
		if seen[name] {
			t.Errorf("duplicate ErrorKind name %q", name)
		}
		seen[name] = true
		if k.sentinel() == nil {
			t.Errorf("%v has no sentinel", k)
		}
	}
	if got := ErrorKind(99).String(); got != "ErrorKind(99)" {
		t.Errorf("String() = %q", got)
	}
}
