// Package format pretty-prints HTML before it is written to disk.
package format

import "github.com/yosssi/gohtml"

// Format re-indents html with two spaces per level. It performs no I/O and
// returns the same output for the same input.
func Format(html string) string {
	return gohtml.Format(html)
}
