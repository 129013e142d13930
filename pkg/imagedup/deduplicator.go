package imagedup

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/udhos/equalfile"
)

// Image formats that can be decoded for perceptual hashing
var SupportedImageFormats = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Detector decides whether a file is already present in a date bucket.
// Byte-identical files are always duplicates. Decodable images are also
// duplicates when their average hashes are within MaxDistance and the
// incoming file is not larger than the one already placed, so the larger
// copy is never the one left behind.
type Detector struct {
	MaxDistance int

	cmp *equalfile.Cmp
	log zerolog.Logger
}

// New returns a Detector. A negative maxDistance disables perceptual matching.
func New(log zerolog.Logger, maxDistance int) *Detector {
	return &Detector{
		MaxDistance: maxDistance,
		cmp:         equalfile.New(nil, equalfile.Options{}),
		log:         log,
	}
}

// Same reports whether src duplicates existing.
func (d *Detector) Same(src, existing string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	existingInfo, err := os.Stat(existing)
	if err != nil {
		return false, err
	}

	if srcInfo.Size() == existingInfo.Size() {
		equal, err := d.cmp.CompareFile(src, existing)
		if err != nil {
			return false, fmt.Errorf("compare %s: %w", existing, err)
		}
		if equal {
			return true, nil
		}
	}

	if d.MaxDistance < 0 || srcInfo.Size() > existingInfo.Size() {
		return false, nil
	}
	if !isDecodable(src) || !isDecodable(existing) {
		return false, nil
	}

	srcHash, err := averageHash(src)
	if err != nil {
		d.log.Debug().Err(err).Str("file", src).Msg("skipping perceptual comparison")
		return false, nil
	}
	existingHash, err := averageHash(existing)
	if err != nil {
		d.log.Debug().Err(err).Str("file", existing).Msg("skipping perceptual comparison")
		return false, nil
	}

	distance, err := srcHash.Distance(existingHash)
	if err != nil {
		return false, err
	}
	return distance <= d.MaxDistance, nil
}

func isDecodable(path string) bool {
	return SupportedImageFormats[strings.ToLower(filepath.Ext(path))]
}

// averageHash decodes an image file and computes its average hash.
func averageHash(filePath string) (*goimagehash.ImageHash, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Validate if it's an actual image file
	if _, _, err := image.DecodeConfig(file); err != nil {
		return nil, fmt.Errorf("not a decodable image: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	return goimagehash.AverageHash(img)
}
