package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the coarse semantic classification of a file derived from its
// extension. Values are lowercase tokens; FolderName derives the display form
// used for destination directories.
type Category string

const (
	CategoryDocuments     Category = "documents"
	CategoryImages        Category = "images"
	CategoryVideos        Category = "videos"
	CategoryAudio         Category = "audio"
	CategoryArchives      Category = "archives"
	CategorySpreadsheets  Category = "spreadsheets"
	CategoryPresentations Category = "presentations"
	CategoryCode          Category = "code"
	CategoryExecutables   Category = "executables"
	CategoryOther         Category = "other"
	CategoryUnknown       Category = "unknown"
)

var categoryExtensions = map[Category][]string{
	CategoryDocuments:     {".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt"},
	CategoryImages:        {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".svg", ".webp"},
	CategoryVideos:        {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"},
	CategoryAudio:         {".mp3", ".wav", ".flac", ".aac", ".wma", ".ogg"},
	CategoryArchives:      {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"},
	CategorySpreadsheets:  {".xls", ".xlsx", ".csv", ".ods"},
	CategoryPresentations: {".ppt", ".pptx", ".odp"},
	CategoryCode:          {".py", ".js", ".html", ".css", ".cpp", ".java", ".c", ".h", ".php", ".rb"},
	CategoryExecutables:   {".exe", ".msi", ".dmg", ".deb", ".rpm", ".app"},
}

var extensionCategory = func() map[string]Category {
	index := make(map[string]Category, 64)
	for category, extensions := range categoryExtensions {
		for _, ext := range extensions {
			index[ext] = category
		}
	}
	return index
}()

var titleCaser = cases.Title(language.Und)

// CategoryForExtension maps a lower-cased extension (leading dot included) to
// its category. Unrecognized extensions map to CategoryOther.
func CategoryForExtension(ext string) Category {
	if category, ok := extensionCategory[strings.ToLower(ext)]; ok {
		return category
	}
	return CategoryOther
}

// Categories lists every category in a stable order, classification targets
// first, fallbacks last.
func Categories() []Category {
	return []Category{
		CategoryDocuments,
		CategoryImages,
		CategoryVideos,
		CategoryAudio,
		CategoryArchives,
		CategorySpreadsheets,
		CategoryPresentations,
		CategoryCode,
		CategoryExecutables,
		CategoryOther,
		CategoryUnknown,
	}
}

// FolderName returns the display form used for destination directories,
// e.g. "documents" becomes "Documents".
func (c Category) FolderName() string {
	return titleCaser.String(string(c))
}

// Organizable reports whether records of this category participate in
// organization plans by default. Other and Unknown stay in place unless the
// caller opts in.
func (c Category) Organizable() bool {
	return c != CategoryOther && c != CategoryUnknown && c != ""
}
