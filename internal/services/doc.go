// Package services defines shared utilities consumed by the catalog client,
// the download pipeline, and the conversion backends.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, family names, and variant tokens for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures as
//     configuration, catalog, per-variant tool, or filesystem errors.
//
// Use these helpers when wiring new components so operational behaviour (error
// classification, observability) stays uniform across a run.
package services
