package dateutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gavinmcnair/datesort/pkg/media"
	"github.com/rs/zerolog"
)

// DayLayout is the bucket name format.
const DayLayout = "2006-01-02"

// ErrNoDate is returned by readers when a file carries no usable date tag.
var ErrNoDate = errors.New("no date tag present")

// Source records where a resolved date came from.
type Source string

const (
	SourceExif      Source = "exif"
	SourceContainer Source = "container"
	SourceFilename  Source = "filename"
	SourceModTime   Source = "modtime"
	SourceClock     Source = "clock"
)

// Resolved is a bucket date and its origin.
type Resolved struct {
	Date   string
	Source Source
}

// ImageReader reports the raw "original capture time" tag of an image.
type ImageReader interface {
	OriginalTime(path string) (string, error)
}

// VideoTags holds the raw container date tags of a video, empty when absent.
type VideoTags struct {
	Recorded string
	Encoded  string
	Tagged   string
}

// First returns the first non-empty tag in recorded, encoded, tagged order.
func (t VideoTags) First() string {
	for _, v := range []string{t.Recorded, t.Encoded, t.Tagged} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// VideoReader reports the container date tags of a video.
type VideoReader interface {
	Dates(path string) (VideoTags, error)
}

// Resolver picks a bucket date for a file. Metadata is tried first, then
// (optionally) the filename, then the file's modification time.
type Resolver struct {
	Images        ImageReader
	Videos        VideoReader
	FilenameDates bool

	log zerolog.Logger
	now func() time.Time
}

// NewResolver returns a Resolver wired to the default EXIF and MP4 readers.
func NewResolver(log zerolog.Logger, filenameDates bool) *Resolver {
	return &Resolver{
		Images:        ChainImageReader{GoexifReader{}, SearchReader{}},
		Videos:        MP4Reader{},
		FilenameDates: filenameDates,
		log:           log,
		now:           time.Now,
	}
}

// Resolve never fails: every file gets a date.
func (r *Resolver) Resolve(path string, kind media.Kind) Resolved {
	switch kind {
	case media.Image:
		if date, ok := r.imageDate(path); ok {
			return Resolved{Date: date, Source: SourceExif}
		}
	case media.Video:
		if date, ok := r.videoDate(path); ok {
			return Resolved{Date: date, Source: SourceContainer}
		}
	}

	if r.FilenameDates {
		if date, err := extractDateFromFilename(filepath.Base(path)); err == nil {
			return Resolved{Date: date, Source: SourceFilename}
		}
	}

	date, err := extractFileModTime(path)
	if err == nil {
		return Resolved{Date: date, Source: SourceModTime}
	}
	r.log.Warn().Err(err).Str("file", path).Msg("stat failed, using current date")

	now := time.Now
	if r.now != nil {
		now = r.now
	}
	return Resolved{Date: now().Local().Format(DayLayout), Source: SourceClock}
}

func (r *Resolver) imageDate(path string) (string, bool) {
	if r.Images == nil {
		return "", false
	}
	raw, err := guarded(func() (string, error) { return r.Images.OriginalTime(path) })
	if err != nil {
		r.log.Debug().Err(err).Str("file", path).Msg("no EXIF capture time")
		return "", false
	}
	return datePrefix(raw)
}

func (r *Resolver) videoDate(path string) (string, bool) {
	if r.Videos == nil {
		return "", false
	}
	tags, err := guarded(func() (VideoTags, error) { return r.Videos.Dates(path) })
	if err != nil {
		r.log.Debug().Err(err).Str("file", path).Msg("no container dates")
		return "", false
	}
	return datePrefix(tags.First())
}

// datePrefix turns "2023:05:14 10:00:00" or "2023-05-14T10:00:00Z" into
// "2023-05-14". Values that do not start with a real calendar date are
// rejected.
func datePrefix(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(DayLayout) {
		return "", false
	}
	date := strings.ReplaceAll(raw[:len(DayLayout)], ":", "-")
	if _, err := time.Parse(DayLayout, date); err != nil {
		return "", false
	}
	return date, true
}

// guarded runs a metadata read, turning library panics into errors.
func guarded[T any](read func() (T, error)) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("metadata reader panic: %v", p)
		}
	}()
	return read()
}

// dateLayouts defines formats to try parsing filename dates
var dateLayouts = []string{
	"2006-01-02", "02-01-2006", "2006/01/02",
	"02/01/2006", "20060102", "060102",
}

var filenameDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4}|\d{8}|\d{6})`)

// extractDateFromFilename parses possible date formats
func extractDateFromFilename(filename string) (string, error) {
	match := filenameDatePattern.FindStringSubmatch(filename)

	if len(match) > 0 {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, match[0]); err == nil {
				return t.Format(DayLayout), nil
			}
		}
	}

	return "", fmt.Errorf("no date found in filename")
}

// extractFileModTime provides modification time
func extractFileModTime(filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", err
	}

	return info.ModTime().Local().Format(DayLayout), nil
}
