// Package naming maps a page URL and the asset references found on it to
// deterministic local file names.
package naming

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	indexSuffix     = ".html"
	assetsDirSuffix = "_files/"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// Sanitize replaces every character outside [A-Za-z0-9] with a hyphen, drops
// a single leading hyphen from each part and joins the non-empty parts with
// hyphens.
func Sanitize(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := unsafeChars.ReplaceAllString(p, "-")
		s = strings.TrimPrefix(s, "-")
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "-")
}

// IndexFilename returns the file name of the mirrored page,
// e.g. "hexlet-io-courses.html" for https://hexlet.io/courses.
func IndexFilename(page *url.URL) string {
	return Sanitize(page.Host, page.Path) + indexSuffix
}

// AssetsDirName returns the per-page assets directory name. It carries a
// trailing slash so it can be prefixed directly to an asset name in links.
func AssetsDirName(host, pathname string) string {
	return Sanitize(host, pathname) + assetsDirSuffix
}

// AssetLocalName returns the local file name for an asset reference. The
// extension is kept verbatim.
func AssetLocalName(ref string) string {
	ext := path.Ext(ref)
	dir, base := path.Split(strings.TrimSuffix(ref, ext))
	return Sanitize(path.Join(dir, base)) + ext
}

// AssetLink is the reference written into the index file for ref. It is
// relative to the index file.
func AssetLink(page *url.URL, ref string) string {
	return AssetsDirName(page.Host, page.Path) + AssetLocalName(ref)
}

// AssetsDir returns the absolute path of the page's assets directory.
func AssetsDir(outputDir string, page *url.URL) string {
	return resolve(outputDir, AssetsDirName(page.Host, page.Path))
}

// AssetFilepath returns the absolute path the asset ref is written to.
func AssetFilepath(outputDir string, page *url.URL, ref string) string {
	return resolve(outputDir, AssetsDirName(page.Host, page.Path), AssetLocalName(ref))
}

func resolve(elem ...string) string {
	p := filepath.Join(elem...)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
