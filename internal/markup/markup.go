// Package markup finds the same-origin assets referenced by a page and
// rewrites those references to point at the local copies.
package markup

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/go-scripts/pageloader/internal/naming"
	"github.com/go-scripts/pageloader/internal/refset"
)

// assetSelector matches every element whose src/href is an asset.
const assetSelector = "link, script, img"

var assetAttrs = []string{"src", "href"}

// Result is the outcome of ExtractAndRewrite.
type Result struct {
	// HTML is the document with asset references rewritten.
	HTML string
	// References are the distinct same-origin asset paths in lexicographic
	// order.
	References []string
}

type attrRef struct {
	sel *goquery.Selection
	key string
	ref string
}

// ExtractAndRewrite parses src, collects same-origin references from link,
// script and img elements, and rewrites each of them to the local path
// given by naming.AssetLink.
func ExtractAndRewrite(src string, page *url.URL) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	refs := refset.New()
	var found []attrRef

	doc.Find(assetSelector).Each(func(_ int, s *goquery.Selection) {
		for _, key := range assetAttrs {
			val, ok := s.Attr(key)
			if !ok {
				continue
			}
			ref, ok := SameOriginPath(val, page)
			if !ok {
				continue
			}
			refs.Add(ref)
			found = append(found, attrRef{sel: s, key: key, ref: ref})
		}
	})

	for _, f := range found {
		f.sel.SetAttr(f.key, naming.AssetLink(page, f.ref))
	}

	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
	}

	return &Result{HTML: buf.String(), References: refs.Sorted()}, nil
}

// SameOriginPath reports whether an attribute value points at an asset on
// the page's own host and returns its path. Empty and protocol-relative
// values, values on other hosts and non-http schemes are rejected.
// Relative paths are resolved against the page so the result always starts
// with a slash.
func SameOriginPath(val string, page *url.URL) (string, bool) {
	val = strings.TrimSpace(val)
	if val == "" || strings.HasPrefix(val, "//") {
		return "", false
	}

	u, err := url.Parse(val)
	if err != nil {
		return "", false
	}

	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
	default:
		return "", false
	}
	if u.Host != "" && !strings.EqualFold(u.Host, page.Host) {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}

	ref := u.Path
	if !strings.HasPrefix(ref, "/") {
		ref = page.ResolveReference(&url.URL{Path: ref}).Path
	}
	// "/" and the like have nothing left to name a file after.
	if naming.AssetLocalName(ref) == "" {
		return "", false
	}
	return ref, true
}
