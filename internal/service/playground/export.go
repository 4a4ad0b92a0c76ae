package playground

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Export file names match what the original download produced.
const (
	exportJSXName = "Component.jsx"
	exportCSSName = "styles.css"
)

// Archive packages the component's JSX and CSS into a ZIP ready to
// download.
func Archive(code, css string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name string
		body string
	}{
		{exportJSXName, code},
		{exportCSSName, css},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create %s in archive: %w", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			return nil, fmt.Errorf("write %s to archive: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
