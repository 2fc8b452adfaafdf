package classify

import (
	"fmt"
	"strings"
)

// Category is one label from the fixed file taxonomy.
type Category string

const (
	Images        Category = "Images"
	Videos        Category = "Videos"
	Documents     Category = "Documents"
	Music         Category = "Music"
	Archives      Category = "Archives"
	Executables   Category = "Executables"
	Code          Category = "Code"
	Spreadsheets  Category = "Spreadsheets"
	Presentations Category = "Presentations"
	Others        Category = "Others"
)

// Categories lists every category in display order.
var Categories = []Category{
	Images,
	Videos,
	Documents,
	Music,
	Archives,
	Executables,
	Code,
	Spreadsheets,
	Presentations,
	Others,
}

// FolderName returns the subfolder name used for this category.
func (c Category) FolderName() string { return string(c) }

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// defaultExtensions is the static extension-to-category table.
// Extensions are stored lower-cased without the leading dot.
var defaultExtensions = map[Category][]string{
	Images:        {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "svg", "webp", "ico", "heic"},
	Videos:        {"mp4", "mkv", "mov", "avi", "wmv", "flv", "mpv", "webm", "m4v", "mpeg", "mpg"},
	Documents:     {"pdf", "doc", "docx", "txt", "rtf", "odt", "md", "tex", "epub"},
	Music:         {"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "opus"},
	Archives:      {"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "iso"},
	Executables:   {"exe", "msi", "apk", "dmg", "deb", "rpm", "appimage"},
	Code:          {"go", "py", "js", "ts", "java", "c", "cpp", "h", "hpp", "rs", "rb", "php", "sh", "html", "css", "json", "yaml", "yml", "toml", "sql"},
	Spreadsheets:  {"xls", "xlsx", "csv", "ods"},
	Presentations: {"ppt", "pptx", "odp", "key"},
}

// Table maps file extensions to categories. The zero table is not usable;
// construct one with NewTable.
type Table struct {
	byExt map[string]Category
}

// NewTable builds a classification table from the static defaults plus
// optional per-extension overrides (extension -> category name). Override
// extensions may carry a leading dot and any case. An override naming an
// unknown category is an error.
func NewTable(overrides map[string]string) (*Table, error) {
	byExt := make(map[string]Category)
	for cat, exts := range defaultExtensions {
		for _, ext := range exts {
			byExt[ext] = cat
		}
	}

	for ext, name := range overrides {
		cat := Category(name)
		if !cat.Valid() {
			return nil, fmt.Errorf("unknown category %q for extension %q", name, ext)
		}
		byExt[NormalizeExt(ext)] = cat
	}

	return &Table{byExt: byExt}, nil
}

// Classify maps an extension to its category. It is total: unknown or
// missing extensions map to Others, and it never fails.
func (t *Table) Classify(ext string) Category {
	if cat, ok := t.byExt[NormalizeExt(ext)]; ok {
		return cat
	}
	return Others
}

// NormalizeExt lower-cases an extension and strips a single leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FolderNames returns the subfolder names for all categories.
func FolderNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.FolderName()
	}
	return names
}
