// Package docs holds the static architecture document shown by the client's
// "docs" view and served by the backend at /docs.
package docs

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed architecture.md
var architecture []byte

// Markdown returns the raw architecture document.
func Markdown() string {
	return string(architecture)
}

// HTML renders the architecture document and strips anything the UGC policy
// would not allow.
func HTML() ([]byte, error) {
	return render(architecture)
}

func render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes()), nil
}
