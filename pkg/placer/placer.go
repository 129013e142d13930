package placer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Swapped in tests to simulate permission and EXDEV failures.
var renameFunc = os.Rename

// ErrDuplicate is returned when the source duplicates a file already in the
// bucket. The source is left where it is.
var ErrDuplicate = errors.New("duplicate of existing file")

// CrossDeviceError marks a rename that failed because source and target are
// on different filesystems. Files are never copied and deleted instead.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device move %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// DuplicateFunc reports whether src has the same content as existing.
type DuplicateFunc func(src, existing string) (bool, error)

// Placer moves files into date buckets under a root directory.
type Placer struct {
	DryRun    bool
	Duplicate DuplicateFunc

	log zerolog.Logger
}

// New returns a Placer. dup may be nil to disable duplicate detection.
func New(log zerolog.Logger, dryRun bool, dup DuplicateFunc) *Placer {
	return &Placer{DryRun: dryRun, Duplicate: dup, log: log}
}

// Place moves src to root/bucket/<name>, choosing name_N.ext when the name
// is taken, and returns the final path. In dry-run mode the path is computed
// but nothing is created or moved. On error src is left untouched.
func (p *Placer) Place(src, bucket, root string) (string, error) {
	if err := validBucket(bucket); err != nil {
		return "", err
	}
	dir := filepath.Join(root, bucket)

	if !p.DryRun {
		// A failed mkdir surfaces as the rename failure below.
		if err := EnsureBucket(dir); err != nil {
			p.log.Warn().Err(err).Str("dir", dir).Msg("create date directory failed")
		}
	}

	name := filepath.Base(src)
	if p.Duplicate != nil {
		existing, err := p.findDuplicate(src, dir, name)
		if err != nil {
			p.log.Debug().Err(err).Str("file", src).Msg("duplicate check failed")
		} else if existing != "" {
			return existing, fmt.Errorf("%s matches %s: %w", src, existing, ErrDuplicate)
		}
	}

	target, err := NextFreeName(dir, name)
	if err != nil {
		return "", err
	}
	if p.DryRun {
		return target, nil
	}

	if err := rename(src, target); err != nil {
		return "", err
	}
	return target, nil
}

// EnsureBucket creates dir (one level only). An existing directory is not
// an error, so concurrent creation of a shared bucket is safe.
func EnsureBucket(dir string) error {
	err := os.Mkdir(dir, 0o755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return err
	}
	info, statErr := os.Stat(dir)
	if statErr != nil {
		return statErr
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dir)
	}
	return nil
}

// NextFreeName returns dir/name, or dir/stem_N.ext for the smallest N >= 1
// that is not taken.
func NextFreeName(dir, name string) (string, error) {
	stem, ext := splitName(name)
	candidate := filepath.Join(dir, name)
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}

func (p *Placer) findDuplicate(src, dir, name string) (string, error) {
	stem, ext := splitName(name)
	candidate := filepath.Join(dir, name)
	for counter := 1; ; counter++ {
		info, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if info.Mode().IsRegular() {
			same, err := p.Duplicate(src, candidate)
			if err != nil {
				return "", err
			}
			if same {
				return candidate, nil
			}
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}

func rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// splitName splits "clip.mp4" into "clip" and ".mp4". Dotfiles without a
// further extension keep their whole name as the stem.
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

func validBucket(bucket string) error {
	if bucket == "" || bucket == "." || bucket == ".." || strings.ContainsAny(bucket, `/\`) {
		return fmt.Errorf("invalid date directory name %q", bucket)
	}
	return nil
}
