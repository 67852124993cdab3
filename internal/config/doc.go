// Package config loads, normalizes, and validates gfontapi configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the GFONT_API_KEY environment
// fallback. The Config type centralizes every knob the CLI needs: the catalog
// endpoint and credential, the output directory, the conversion tool, and the
// stylesheet record order.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
