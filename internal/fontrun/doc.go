// Package fontrun wires a complete family download: catalog lookup, family
// slug and directory, the concurrent download-convert pipeline, and the
// stylesheet.
//
// Run is the single entry point used by the CLI. Collaborators default to
// their production implementations and can be replaced through Options.
package fontrun
