package web

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourceName derives a file name from a page URL: lower-cased, with the
// characters that are not allowed in file names removed.
func SourceName(url string) string {
	name := cases.Lower(language.Und).String(url)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, name)
}

// dumpSource writes source to dir/name.html.
func dumpSource(dir, name, source string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("web: source dir: %w", err)
	}
	path := filepath.Join(dir, name+".html")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return "", fmt.Errorf("web: dump source: %w", err)
	}
	return path, nil
}
