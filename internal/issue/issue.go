// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

// Id identifies an entry of the issue catalogue.
type Id int

const (
	VfsRootInvalidId Id = iota + 1
	ConfigLoadFailedId
	ScriptNotFoundId
	ServeFailedId
)

type MarkdownMsg string

// Issue is a Markdown guide shown when a matching fatal error occurs.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

// Render renders the guide for a terminal using the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	vfsRootInvalidIssue = &Issue{
		id: VfsRootInvalidId,
		mdMsg: `
# The virtual filesystem root is not usable!

vfsh confines every command to one directory on disk, and that directory
must exist before the shell starts.

## Things you can try:
- Pass an existing directory explicitly:
~~~
$ vfsh --vfs ./sandbox
~~~
- Check the ` + "`vfs`" + ` entry of your config file:
~~~
$ vfsh config show
~~~
- Or set it through the environment:
~~~
$ VFSH_VFS=/srv/sandbox vfsh
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be parsed or validated.

## Things you can try:
- Print the file location:
~~~
$ vfsh config path
~~~
- Regenerate a default file and compare:
~~~
$ vfsh config dump
~~~
- Remember that only ` + "`vfs`, `script`, `prompt`, `ui` and `serve`" + ` are accepted keys.`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Startup script not found!

The interactive shell still started, but no startup commands were replayed.

## Things you can try:
- Check the path given with ` + "`--script`" + ` (relative paths are resolved
  from the directory vfsh was started in)
- Remove the ` + "`script`" + ` entry from your config file if it is stale`,
	}

	serveFailedIssue = &Issue{
		id: ServeFailedId,
		mdMsg: `
# Failed to start the SSH server!

## Things you can try:
- Choose a free address:
~~~
$ vfsh serve --listen 127.0.0.1:2323
~~~
- Make sure the directory of ` + "`--host-key`" + ` is writable so a key can be generated`,
	}

	issues = map[Id]*Issue{
		vfsRootInvalidIssue.Id():   vfsRootInvalidIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		scriptNotFoundIssue.Id():   scriptNotFoundIssue,
		serveFailedIssue.Id():      serveFailedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
