package simpledrive

import (
	"path/filepath"
	"strings"
)

var extensionTypes = map[string]FileType{
	// image
	"jpg": FileTypeImage, "jpeg": FileTypeImage, "png": FileTypeImage,
	"gif": FileTypeImage, "bmp": FileTypeImage, "svg": FileTypeImage,
	"webp": FileTypeImage, "heic": FileTypeImage,
	// document
	"pdf": FileTypeDocument, "doc": FileTypeDocument, "docx": FileTypeDocument,
	"txt": FileTypeDocument, "xls": FileTypeDocument, "xlsx": FileTypeDocument,
	"csv": FileTypeDocument, "rtf": FileTypeDocument, "ods": FileTypeDocument,
	"ppt": FileTypeDocument, "pptx": FileTypeDocument, "odt": FileTypeDocument,
	"md": FileTypeDocument, "html": FileTypeDocument, "htm": FileTypeDocument,
	"epub": FileTypeDocument, "pages": FileTypeDocument,
	// video
	"mp4": FileTypeVideo, "avi": FileTypeVideo, "mov": FileTypeVideo,
	"mkv": FileTypeVideo, "webm": FileTypeVideo, "wmv": FileTypeVideo,
	"flv": FileTypeVideo, "m4v": FileTypeVideo,
	// audio
	"mp3": FileTypeAudio, "wav": FileTypeAudio, "ogg": FileTypeAudio,
	"flac": FileTypeAudio, "aac": FileTypeAudio, "m4a": FileTypeAudio,
	"wma": FileTypeAudio, "aiff": FileTypeAudio,
}

// FileTypeFromName derives the file type and extension from a file name.
// The derivation happens once at upload time; type and extension never
// diverge from what the stored name's suffix implies.
func FileTypeFromName(name string) (FileType, string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return FileTypeOther, ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t, ext
	}
	return FileTypeOther, ext
}
