// Package assets classifies asset references into binary or text kinds and
// carries each asset through fetch and write.
package assets

import (
	"path"
	"strings"

	"github.com/go-scripts/pageloader/internal/fetcher"
	"github.com/go-scripts/pageloader/internal/writer"
)

// Kind is one of Binary or Text. The zero value is not a valid Kind.
type Kind struct {
	name      string
	FetchMode fetcher.Mode
	WriteMode writer.Mode
}

var (
	// Binary assets are fetched raw and written byte for byte.
	Binary = Kind{name: "binary", FetchMode: fetcher.ModeBinary, WriteMode: writer.ModeBinary}
	// Text assets are fetched as UTF-8 text and written as such.
	Text = Kind{name: "text", FetchMode: fetcher.ModeText, WriteMode: writer.ModeText}
)

func (k Kind) String() string { return k.name }

var binaryExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// Classify picks the Kind of ref from its extension. Anything that is not a
// known image extension, including no extension at all, is Text.
func Classify(ref string) Kind {
	if _, ok := binaryExtensions[strings.ToLower(path.Ext(ref))]; ok {
		return Binary
	}
	return Text
}

// Asset is one same-origin resource of the page being mirrored.
type Asset struct {
	Reference string
	Kind      Kind

	payload []byte
	fetched bool
}

// New classifies ref and wraps it in an Asset with no payload yet.
func New(ref string) *Asset {
	return &Asset{Reference: ref, Kind: Classify(ref)}
}

// Resolve attaches the fetched payload. Only the first call has an effect.
func (a *Asset) Resolve(payload []byte) {
	if a.fetched {
		return
	}
	a.payload = payload
	a.fetched = true
}

// Payload returns the fetched payload, or false if the fetch never
// succeeded and the asset must not be written.
func (a *Asset) Payload() ([]byte, bool) {
	return a.payload, a.fetched
}
