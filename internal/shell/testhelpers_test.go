// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/vfsh/vfsh/internal/vfs"
)

const testRoot = "/vfs"

// newTestInterpreter builds an interpreter over an in-memory tree:
//
//	/vfs/dir1/file.txt
//	/vfs/dir1/sub dir/
//	/vfs/dir2/
//	/vfs/notes.txt
//	/vfs-root-evil/secret
func newTestInterpreter(t *testing.T) (*Interpreter, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"/vfs/dir1/sub dir", "/vfs/dir2", "/vfs-root-evil"} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", dir, err)
		}
	}
	for _, file := range []string{"/vfs/dir1/file.txt", "/vfs/notes.txt", "/vfs-root-evil/secret"} {
		if err := afero.WriteFile(fsys, file, []byte("data"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", file, err)
		}
	}

	guard, err := vfs.NewGuard(fsys, testRoot)
	if err != nil {
		t.Fatalf("NewGuard() error: %v", err)
	}

	session := NewSession(guard, ConfigTable{
		ConfigKeyVFS:    testRoot,
		ConfigKeyScript: "/scripts/start.vfsh",
	})
	return NewInterpreter(session), fsys
}

// mustRun executes line and fails the test if it reports an error.
func mustRun(t *testing.T, in *Interpreter, line string) Result {
	t.Helper()
	res := in.Execute(line)
	if res.Err != nil {
		t.Fatalf("Execute(%q) error: %v (lines %q)", line, res.Err, res.Lines)
	}
	return res
}
