// Package playground renders the sandbox preview document, applies element
// property edits to generated code, and packages components for export.
package playground

import "fmt"

// previewShell centers the component on a neutral background, matching the
// document the browser sandbox frame renders.
const previewShell = `<!DOCTYPE html><html><head><style>%s</style></head><body style='margin:0;padding:0;display:flex;align-items:center;justify-content:center;min-height:100vh;background:#f6f8fa;'>%s</body></html>`

// Document combines the stored CSS and markup into the full preview page.
// The code is treated as opaque text; no parsing or sanitizing happens here,
// isolation is the sandbox frame's job.
func Document(code, css string) string {
	return fmt.Sprintf(previewShell, css, code)
}
