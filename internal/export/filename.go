package export

import (
	"mime"
	"path"
	"strings"
)

// DefaultFilename is the download name used when the caller gives none.
const DefaultFilename = "ResumoSpreads.xlsx"

const xlsxExt = ".xlsx"

// ResolveFilename picks the file name for an export. An empty name falls
// back to fallback (or DefaultFilename). Directory components are dropped
// and ".xlsx" is appended when the name does not already end with it.
func ResolveFilename(name, fallback string) string {
	return resolveName(name, fallback, xlsxExt)
}

// WithExtension is ResolveFilename for other formats: the xlsx extension, if
// present, is swapped for ext.
func WithExtension(name, ext string) string {
	name = ResolveFilename(name, "")
	return name[:len(name)-len(xlsxExt)] + ext
}

func resolveName(name, fallback, ext string) string {
	if fallback == "" {
		fallback = DefaultFilename
	}
	name = cleanBase(name)
	if name == "" {
		name = cleanBase(fallback)
	}
	if name == "" {
		name = DefaultFilename
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}

func cleanBase(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// ContentDisposition returns an attachment header value for filename.
func ContentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
