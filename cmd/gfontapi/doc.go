// Command gfontapi downloads every variant of a catalog font family,
// converts each one to WOFF2, and writes a matching fonts.css.
//
// Usage:
//
//	gfontapi [flags] "<family>"
//	gfontapi variants
//	gfontapi status [--check-family <family>]
//	gfontapi config init|validate
//
// The catalog API key comes from --api-key, then GFONT_API_KEY, then the
// config file.
package main
