package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Seconds between the QuickTime epoch (1904) and the Unix epoch.
const QuickTimeEpochOffset = 2082844800

// WriteFile writes data to path and sets its modification time when mtime is
// not zero.
func WriteFile(t testing.TB, path string, data []byte, mtime time.Time) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

// ReadFile returns the contents of path, failing the test when it is missing.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// JPEGWithDateTimeOriginal returns a minimal JPEG stream whose APP1 segment
// carries a big-endian TIFF block with an Exif IFD holding DateTimeOriginal.
func JPEGWithDateTimeOriginal(value string) []byte {
	tiff := exifTIFF(value)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(2+6+len(tiff)))
	buf.WriteString("Exif\x00\x00")
	buf.Write(tiff)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// PlainJPEG returns a JPEG-looking stream without any metadata.
func PlainJPEG() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04, 0x00, 0x00, 0xFF, 0xD9}
}

func exifTIFF(value string) []byte {
	be := binary.BigEndian
	ascii := append([]byte(value), 0)

	const (
		ifd0Offset    = 8
		exifIFDOffset = ifd0Offset + 2 + 12 + 4
		dataOffset    = exifIFDOffset + 2 + 12 + 4
	)

	var buf bytes.Buffer
	buf.WriteString("MM")
	_ = binary.Write(&buf, be, uint16(42))
	_ = binary.Write(&buf, be, uint32(ifd0Offset))

	// IFD0: ExifIFDPointer only.
	_ = binary.Write(&buf, be, uint16(1))
	_ = binary.Write(&buf, be, uint16(0x8769))
	_ = binary.Write(&buf, be, uint16(4))
	_ = binary.Write(&buf, be, uint32(1))
	_ = binary.Write(&buf, be, uint32(exifIFDOffset))
	_ = binary.Write(&buf, be, uint32(0))

	// Exif IFD: DateTimeOriginal (ASCII).
	_ = binary.Write(&buf, be, uint16(1))
	_ = binary.Write(&buf, be, uint16(0x9003))
	_ = binary.Write(&buf, be, uint16(2))
	_ = binary.Write(&buf, be, uint32(len(ascii)))
	if len(ascii) <= 4 {
		inline := make([]byte, 4)
		copy(inline, ascii)
		buf.Write(inline)
		_ = binary.Write(&buf, be, uint32(0))
		return buf.Bytes()
	}
	_ = binary.Write(&buf, be, uint32(dataOffset))
	_ = binary.Write(&buf, be, uint32(0))
	buf.Write(ascii)
	return buf.Bytes()
}

// MP4WithMovieTimes returns an ftyp+moov stream whose version 0 mvhd box
// carries the given creation and modification times. Zero times are written
// as zero.
func MP4WithMovieTimes(created, modified time.Time) []byte {
	var out bytes.Buffer
	out.Write(fileType())
	out.Write(box("moov", box("mvhd", movieHeader(created, modified))))
	return out.Bytes()
}

// MP4WithRecordedDate returns an MP4 stream whose mvhd carries created and
// whose moov/udta/meta/ilst holds a ©day item with the value recorded.
func MP4WithRecordedDate(recorded string, created time.Time) []byte {
	be := binary.BigEndian

	var data bytes.Buffer
	// well-known type 1 (UTF-8), default locale
	_ = binary.Write(&data, be, uint32(1))
	_ = binary.Write(&data, be, uint32(0))
	data.WriteString(recorded)

	var hdlr bytes.Buffer
	// version and flags, pre-defined
	_ = binary.Write(&hdlr, be, uint32(0))
	_ = binary.Write(&hdlr, be, uint32(0))
	hdlr.WriteString("mdir")
	_ = binary.Write(&hdlr, be, [3]uint32{})
	hdlr.WriteByte(0)

	var meta bytes.Buffer
	// version and flags
	_ = binary.Write(&meta, be, uint32(0))
	meta.Write(box("hdlr", hdlr.Bytes()))
	meta.Write(box("ilst", box("\xa9day", box("data", data.Bytes()))))

	var moov bytes.Buffer
	moov.Write(box("mvhd", movieHeader(created, time.Time{})))
	moov.Write(box("udta", box("meta", meta.Bytes())))

	var out bytes.Buffer
	out.Write(fileType())
	out.Write(box("moov", moov.Bytes()))
	return out.Bytes()
}

func fileType() []byte {
	return box("ftyp", []byte("isom\x00\x00\x02\x00isommp41"))
}

// movieHeader returns a version 0 mvhd payload.
func movieHeader(created, modified time.Time) []byte {
	be := binary.BigEndian

	var mvhd bytes.Buffer
	// version and flags
	_ = binary.Write(&mvhd, be, uint32(0))
	_ = binary.Write(&mvhd, be, quickTimeSeconds(created))
	_ = binary.Write(&mvhd, be, quickTimeSeconds(modified))
	// timescale, duration, rate, volume
	_ = binary.Write(&mvhd, be, uint32(1000))
	_ = binary.Write(&mvhd, be, uint32(0))
	_ = binary.Write(&mvhd, be, int32(0x00010000))
	_ = binary.Write(&mvhd, be, int16(0x0100))
	// reserved
	_ = binary.Write(&mvhd, be, int16(0))
	_ = binary.Write(&mvhd, be, [2]uint32{})
	// unity matrix
	_ = binary.Write(&mvhd, be, [9]int32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000})
	// pre-defined, next track ID
	_ = binary.Write(&mvhd, be, [6]int32{})
	_ = binary.Write(&mvhd, be, uint32(2))
	return mvhd.Bytes()
}

func quickTimeSeconds(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	return uint32(t.Unix() + QuickTimeEpochOffset)
}

func box(kind string, payload []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(kind)
	buf.Write(payload)
	return buf.Bytes()
}
