// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Catalog page identifiers.
const (
	UsageId Id = iota + 1
	MalformedURIId
	PayloadDecodeFailedId
	ConfigLoadFailedId
	AppNotFoundId
	AppPathNotConfiguredId
	LaunchFailedId
	ApplicationFailedId
	SchemeRegistrationFailedId
)

type (
	// Id identifies a catalog page.
	Id int

	// MarkdownMsg is the Markdown source of a page.
	MarkdownMsg string

	// HttpLink is a URL listed under "See also".
	HttpLink string

	// Issue is a catalog page.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	usageIssue = &Issue{
		id: UsageId,
		mdMsg: `
# Invalid arguments

ush is normally started by the operating system when a link is clicked:

~~~
ush run "ush://<app>?<payload>"
~~~

## Things you can try:
- Check the command registered for the ush scheme:
~~~
$ ush scheme status
~~~
- Re-register it so the link is passed as a single argument:
~~~
$ ush scheme register
~~~`,
	}

	malformedURIIssue = &Issue{
		id: MalformedURIId,
		mdMsg: `
# Malformed ush link

A link must look like ` + "`ush://<app>?<payload>`" + ` with exactly one ` + "`?`" + `.

## Things you can try:
- Generate a link instead of writing it by hand:
~~~
$ ush encode vlc "--fullscreen movie.mkv"
~~~
- Make sure the page that produced the link did not append extra query parameters`,
	}

	payloadDecodeFailedIssue = &Issue{
		id: PayloadDecodeFailedId,
		mdMsg: `
# Failed to decompress gzip args

The part after ` + "`?`" + ` must be the standard base64 encoding of gzip-compressed UTF-8 text.

## Common causes:
- URL-safe base64 (` + "`-`" + ` and ` + "`_`" + `) instead of the standard alphabet
- Missing ` + "`=`" + ` padding
- A payload larger than ` + "`launch.max_payload_bytes`" + ` once decompressed`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show which file is used:
~~~
$ ush config path
~~~
- Write a fresh default file:
~~~
$ ush config init
~~~

## Example configuration:
~~~cue
apps: [{name: "vlc", path: "/usr/bin/vlc"}]
launch: {max_payload_bytes: 1048576, timeout: "0s"}
ui: {notifier: "auto"}
~~~`,
	}

	appNotFoundIssue = &Issue{
		id: AppNotFoundId,
		mdMsg: `
# App not found

The link names an app that is not in the registry. Names are case-sensitive.

## Things you can try:
- List the registered apps:
~~~
$ ush apps list
~~~
- Register the app:
~~~
$ ush apps add vlc /usr/bin/vlc
~~~`,
	}

	appPathNotConfiguredIssue = &Issue{
		id: AppPathNotConfiguredId,
		mdMsg: `
# No executable configured

The app is registered but has no executable path.

## Things you can try:
~~~
$ ush apps set-path vlc /usr/bin/vlc
~~~`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# Failed to launch the app

The configured executable could not be started.

## Common causes:
- The path points to a file that was moved or uninstalled
- The file is not executable
- The path names a directory or a script without an interpreter line`,
	}

	applicationFailedIssue = &Issue{
		id: ApplicationFailedId,
		mdMsg: `
# The app reported an error

The app started but exited with a non-zero status. The message shown is what it wrote to stderr.

## Things you can try:
- Check what ush passed to it without launching:
~~~
$ ush run --dry-run "ush://..."
~~~`,
	}

	schemeRegistrationFailedIssue = &Issue{
		id: SchemeRegistrationFailedId,
		mdMsg: `
# Failed to register the ush scheme

## Things you can try:
- On Windows, the browser policy keys live under HKEY_LOCAL_MACHINE and need an elevated prompt
- On Linux, make sure ` + "`xdg-mime`" + ` is installed (package xdg-utils)
- Check the current state:
~~~
$ ush scheme status
~~~`,
		extLinks: []HttpLink{
			"https://specifications.freedesktop.org/desktop-entry-spec/latest/",
			"https://learn.microsoft.com/en-us/previous-versions/windows/internet-explorer/ie-developer/platform-apis/aa767914(v=vs.85)",
		},
	}

	issues = map[Id]*Issue{
		usageIssue.Id():                    usageIssue,
		malformedURIIssue.Id():             malformedURIIssue,
		payloadDecodeFailedIssue.Id():      payloadDecodeFailedIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		appNotFoundIssue.Id():              appNotFoundIssue,
		appPathNotConfiguredIssue.Id():     appPathNotConfiguredIssue,
		launchFailedIssue.Id():             launchFailedIssue,
		applicationFailedIssue.Id():        applicationFailedIssue,
		schemeRegistrationFailedIssue.Id(): schemeRegistrationFailedIssue,
	}
)

// Id returns the page identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the page source.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// ExtLinks returns a copy of the page's external links.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the page with glamour. stylePath is a glamour style name
// such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every catalog page ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the page with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
