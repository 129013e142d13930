package media

import (
	"path/filepath"
	"strings"
)

// Kind is the classification of a scanned file.
type Kind string

const (
	Image       Kind = "image"
	Video       Kind = "video"
	Unsupported Kind = "unsupported"
)

// Supported image formats that carry EXIF capture times
var SupportedImageFormats = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
}

// Supported video formats that carry container date tags
var SupportedVideoFormats = map[string]bool{
	".mov": true,
	".mp4": true,
}

// Entry is a single file being processed during one run.
type Entry struct {
	Path string
	Name string
	Ext  string
	Kind Kind
}

// Classifier maps lowercase extensions to a Kind.
type Classifier struct {
	images map[string]bool
	videos map[string]bool
}

// NewClassifier builds a classifier from extension lists. Empty lists fall
// back to the built-in formats.
func NewClassifier(imageExts, videoExts []string) Classifier {
	return Classifier{
		images: extensionSet(imageExts, SupportedImageFormats),
		videos: extensionSet(videoExts, SupportedVideoFormats),
	}
}

// Kind classifies an extension, case-insensitively.
func (c Classifier) Kind(ext string) Kind {
	ext = NormalizeExt(ext)
	switch {
	case c.images[ext]:
		return Image
	case c.videos[ext]:
		return Video
	default:
		return Unsupported
	}
}

// Entry builds the Entry for path.
func (c Classifier) Entry(path string) Entry {
	ext := strings.ToLower(filepath.Ext(path))
	return Entry{
		Path: path,
		Name: filepath.Base(path),
		Ext:  ext,
		Kind: c.Kind(ext),
	}
}

// NormalizeExt lowercases ext and ensures a leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func extensionSet(exts []string, fallback map[string]bool) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if ext = NormalizeExt(ext); ext != "" {
			set[ext] = true
		}
	}
	if len(set) == 0 {
		for ext := range fallback {
			set[ext] = true
		}
	}
	return set
}
