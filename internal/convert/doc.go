// Package convert turns downloaded TrueType/OpenType files into WOFF2 using
// the external woff2_compress tool.
//
// The Converter interface is what the pipeline depends on; Client is the
// production implementation. Command execution sits behind Executor so tests
// can supply stubs.
package convert
