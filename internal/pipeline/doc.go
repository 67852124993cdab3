// Package pipeline downloads and converts every variant of a font family
// concurrently.
//
// Run launches one goroutine per variant. Each goroutine streams its file to
// disk, optionally inspects it, hands it to the injected converter, removes
// the intermediate download, and records exactly one completion in the shared
// Progress. A single reporter goroutine observes those completions. Run joins
// every task before returning, and per-variant failures never cancel siblings.
package pipeline
