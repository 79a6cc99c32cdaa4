package outfile

import (
	"bytes"
	"strings"

	"github.com/natefinch/atomic"
)

// WriteGeneratedFile writes src to outPath, always overwriting any existing file.
// Readers never observe a partially written file.
func WriteGeneratedFile(outPath string, src []byte) error {
	return atomic.WriteFile(outPath, bytes.NewReader(src))
}

// OutPath maps a template path to the file generated for it: page.rsx -> page.html.
func OutPath(templatePath string) string {
	if base := strings.TrimSuffix(templatePath, ".rsx"); base != templatePath && base != "" {
		return base + ".html"
	}
	return templatePath + ".html"
}
