// Package preflight provides readiness checks for the conversion tool, the
// catalog credential, and the output directory gfontapi writes into.
//
// The CLI "gfontapi status" command renders these results; the font run
// calls CheckSystemDeps before contacting the catalog so a missing
// woff2_compress is reported up front.
package preflight
