// Package filter implements the category mapping table, sort orders,
// and substring search that spec.md §4.7 composes over a tree.Tree to
// produce a visible-node projection, without ever mutating the tree.
package filter

import "strings"

// Category is one of the closed set of file categories (spec.md §4.7).
// Unknown extensions map to Other.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryAudio       Category = "audio"
	CategoryVideo       Category = "video"
	CategoryImage       Category = "image"
	CategoryDocument    Category = "document"
	CategoryCode        Category = "code"
	CategoryArchive     Category = "archive"
	CategoryApplication Category = "application"
	CategorySystem      Category = "system"
	CategoryOther       Category = "other"
)

// extensionTable maps a lowercased extension (no leading dot) to its
// category. Grounded in original_source/src/ui/input.rs's
// FileCategory::from_extension, extended with the application/system
// categories spec.md §4.7 adds beyond that reference.
var extensionTable = map[string]Category{
	// audio
	"mp3": CategoryAudio, "wav": CategoryAudio, "flac": CategoryAudio,
	"aac": CategoryAudio, "ogg": CategoryAudio, "m4a": CategoryAudio,
	"wma": CategoryAudio, "aiff": CategoryAudio, "opus": CategoryAudio,

	// video
	"mp4": CategoryVideo, "mkv": CategoryVideo, "mov": CategoryVideo,
	"avi": CategoryVideo, "webm": CategoryVideo, "flv": CategoryVideo,
	"wmv": CategoryVideo, "m4v": CategoryVideo, "mpg": CategoryVideo,
	"mpeg": CategoryVideo,

	// image
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "bmp": CategoryImage, "svg": CategoryImage,
	"webp": CategoryImage, "heic": CategoryImage, "tiff": CategoryImage,
	"ico": CategoryImage, "raw": CategoryImage,

	// document
	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"xls": CategoryDocument, "xlsx": CategoryDocument, "ppt": CategoryDocument,
	"pptx": CategoryDocument, "txt": CategoryDocument, "md": CategoryDocument,
	"rtf": CategoryDocument, "odt": CategoryDocument, "csv": CategoryDocument,
	"epub": CategoryDocument,

	// code
	"go": CategoryCode, "rs": CategoryCode, "py": CategoryCode,
	"js": CategoryCode, "ts": CategoryCode, "tsx": CategoryCode,
	"jsx": CategoryCode, "java": CategoryCode, "c": CategoryCode,
	"cpp": CategoryCode, "h": CategoryCode, "hpp": CategoryCode,
	"rb": CategoryCode, "php": CategoryCode, "swift": CategoryCode,
	"kt": CategoryCode, "sh": CategoryCode, "json": CategoryCode,
	"yaml": CategoryCode, "yml": CategoryCode, "toml": CategoryCode,
	"html": CategoryCode, "css": CategoryCode, "sql": CategoryCode,

	// archive
	"zip": CategoryArchive, "tar": CategoryArchive, "gz": CategoryArchive,
	"bz2": CategoryArchive, "7z": CategoryArchive, "rar": CategoryArchive,
	"xz": CategoryArchive, "tgz": CategoryArchive, "iso": CategoryArchive,

	// application
	"exe": CategoryApplication, "app": CategoryApplication, "dmg": CategoryApplication,
	"pkg": CategoryApplication, "deb": CategoryApplication, "rpm": CategoryApplication,
	"msi": CategoryApplication, "appimage": CategoryApplication,

	// system
	"dll": CategorySystem, "so": CategorySystem, "dylib": CategorySystem,
	"sys": CategorySystem, "log": CategorySystem, "cache": CategorySystem,
	"tmp": CategorySystem, "lock": CategorySystem,
}

// CategoryForExtension maps a lowercased extension to its category.
// Unknown or empty extensions map to CategoryOther.
func CategoryForExtension(ext string) Category {
	ext = strings.ToLower(ext)
	if cat, ok := extensionTable[ext]; ok {
		return cat
	}
	return CategoryOther
}

// AllCategories returns the closed set in a stable display order, with
// CategoryAll first as the "no filter" sentinel.
func AllCategories() []Category {
	return []Category{
		CategoryAll, CategoryAudio, CategoryVideo, CategoryImage,
		CategoryDocument, CategoryCode, CategoryArchive,
		CategoryApplication, CategorySystem, CategoryOther,
	}
}
