// Package zip bundles generated shots into a single download.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// Asset is one file inside an archive.
type Asset struct {
	Filename string
	Data     []byte
}

// WriteAssets streams assets into w as a zip archive. Duplicate names get a
// numeric suffix so no entry is shadowed.
func WriteAssets(w io.Writer, assets []Asset) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(assets))
	for _, asset := range assets {
		name := uniqueName(seen, asset.Filename)
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", name, err)
		}
		if _, err := fw.Write(asset.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	return zw.Close()
}

func uniqueName(seen map[string]int, name string) string {
	name = strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	if name == "" {
		name = "file"
	}
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}
