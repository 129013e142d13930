package dateutil

import (
	"errors"
	"os"
	"strings"

	exifsearch "github.com/dsoprea/go-exif/v3"
	"github.com/rwcarlsen/goexif/exif"
)

// GoexifReader reads DateTimeOriginal from JPEG and TIFF style EXIF blocks.
type GoexifReader struct{}

func (GoexifReader) OriginalTime(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return "", err
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", err
	}
	return tag.StringVal()
}

// SearchReader scans the whole file for an EXIF block, which finds the
// metadata embedded in HEIC and PNG containers.
type SearchReader struct{}

func (SearchReader) OriginalTime(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	raw, err := exifsearch.SearchAndExtractExifWithReader(file)
	if err != nil {
		return "", err
	}

	entries, _, err := exifsearch.GetFlatExifData(raw, &exifsearch.ScanOptions{})
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.TagName != "DateTimeOriginal" {
			continue
		}
		if value, ok := entry.Value.(string); ok {
			return value, nil
		}
		return entry.Formatted, nil
	}
	return "", ErrNoDate
}

// ChainImageReader returns the first non-empty value from its readers.
type ChainImageReader []ImageReader

func (c ChainImageReader) OriginalTime(path string) (string, error) {
	var errs []error
	for _, reader := range c {
		value, err := guarded(func() (string, error) { return reader.OriginalTime(path) })
		if err == nil && strings.TrimSpace(value) != "" {
			return value, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return "", ErrNoDate
	}
	return "", errors.Join(errs...)
}
