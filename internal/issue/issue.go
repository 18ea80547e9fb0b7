// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	LibraryNotFoundId
	VersionConflictId
	DependencyCycleId
	SymbolNotFoundId
	InvalidIsolationConfigId
	ConfigLoadFailedId
	LockFileStaleId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No library manifest found!

We searched for a libman.cue manifest but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. Current directory
2. ~/.libman/libraries/
3. Paths configured in your config file

## Things you can try:
- Check that the library directory actually contains a libman.cue
- Add the library's directory to your search paths:
~~~cue
search_paths: [
    "/opt/plugins/libs"
]
~~~

## Example manifest:
~~~cue
name:       "guava"
version:    "33.1.0"
entrypoint: "lib/guava.so"

requires: [
  {name: "slf4j", range: "[2.0.0,3.0.0)"},
]
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse library manifest!

The libman.cue manifest contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A version that is not three dot-separated numbers
- A range without bracket notation ("[1.0.0,2.0.0)")

## Things you can try:
- Check the error message above for the specific field
- Run with verbose mode for more details:
~~~
$ libman --verbose list
~~~

## Example of a valid requirement:
~~~cue
requires: [
  {name: "guice", range: "[7.0.0,8.0.0)"},
  {name: "gson", range: "[2.10.0,)", optional: true},
]
~~~`,
	}

	libraryNotFoundIssue = &Issue{
		id: LibraryNotFoundId,
		mdMsg: `
# Library not found!

A requested library is not present in the registry.

## Things you can try:
- List every discovered library:
~~~
$ libman list
~~~

- Check for typos in the library name (names are case-insensitive)
- Verify the library's directory is inside a configured search path
- Look at the "did you mean" suggestions in the error output`,
	}

	versionConflictIssue = &Issue{
		id: VersionConflictId,
		mdMsg: `
# Version conflict!

Two or more requesters declared ranges for the same library that no
installed version satisfies together.

## Things you can try:
- Inspect who wants what:
~~~
$ libman resolve --explain
~~~

- Widen one of the conflicting ranges in its manifest
- Install a version inside the intersection of the declared ranges
- Mark the library as isolated so each requester loads its own copy:
~~~cue
isolation: {isolated: true}
~~~
- Switch the resolution strategy:
~~~
$ libman resolve --strategy first-declared
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Library requirements form a cycle, so no load order exists.

## Example of a cycle:
~~~cue
// a/libman.cue
requires: [{name: "b", range: "[1.0.0,)"}]

// b/libman.cue
requires: [{name: "a", range: "[1.0.0,)"}]  // Cycle: a -> b -> a
~~~

## Things you can try:
- Review the requires fields of the libraries named in the cycle
- Break the cycle by extracting the shared code into a third library
- Mark one edge optional if it is only needed at runtime`,
	}

	symbolNotFoundIssue = &Issue{
		id: SymbolNotFoundId,
		mdMsg: `
# Symbol not found!

A loading unit could not resolve a symbol from its local artifacts or
its parent scope.

## Things you can try:
- Check the symbol's dotted name against the artifact layout
- Verify the library's artifact paths in its manifest
- If the symbol lives in the host, make sure its namespace prefix is
  excluded so lookups delegate to the parent scope`,
	}

	invalidIsolationConfigIssue = &Issue{
		id: InvalidIsolationConfigId,
		mdMsg: `
# Invalid isolation config!

A library's loading policy could not be built.

## Common causes:
- No artifact locations declared
- An empty library name

## Things you can try:
- Declare at least one artifact in the manifest:
~~~cue
isolation: {
  isolated:  true
  artifacts: ["lib/"]
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the libman configuration file.

## Configuration file locations:
- Linux: ~/.config/libman/config.cue
- macOS: ~/Library/Application Support/libman/config.cue
- Windows: %APPDATA%\libman\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
search_paths: [
    "/opt/plugins/libs"
]
default_strategy: "highest-version"

excluded_namespaces: [
    "host.api."
]
~~~`,
	}

	lockFileStaleIssue = &Issue{
		id: LockFileStaleId,
		mdMsg: `
# Lock file is stale!

The recorded resolution in libman.lock.toml no longer matches what the
resolver selects from the current registry.

## Things you can try:
- Re-run resolution and rewrite the lock:
~~~
$ libman resolve --write-lock
~~~

- Check whether a library version was added or removed since the lock
  was written`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():       manifestNotFoundIssue,
		manifestParseErrorIssue.Id():     manifestParseErrorIssue,
		libraryNotFoundIssue.Id():        libraryNotFoundIssue,
		versionConflictIssue.Id():        versionConflictIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		symbolNotFoundIssue.Id():         symbolNotFoundIssue,
		invalidIsolationConfigIssue.Id(): invalidIsolationConfigIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		lockFileStaleIssue.Id():          lockFileStaleIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
