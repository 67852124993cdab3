// Package catalog provides the Google Fonts Developer API client used to
// resolve a family name into its variant download URLs.
//
// A single GET request is issued per lookup; the first family record of the
// response is returned. Options allow tests to supply custom HTTP clients.
// The API key is never included in returned error messages.
package catalog
