package dateutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
)

// Seconds between 1904-01-01 (QuickTime epoch) and 1970-01-01.
const mp4EpochOffset = 2082844800

const containerTimeLayout = "2006-01-02 15:04:05 UTC"

var (
	movieHeaderPath = mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()}
	recordedPath    = mp4.BoxPath{
		mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta(), mp4.BoxTypeIlst(),
		mp4.StrToBoxType("\xa9day"), mp4.BoxTypeData(),
	}
)

// MP4Reader reads container dates from MP4 and QuickTime files. The recorded
// date comes from the ©day item, the encoded and tagged dates from the movie
// header's creation and modification times.
type MP4Reader struct{}

func (MP4Reader) Dates(path string) (VideoTags, error) {
	file, err := os.Open(path)
	if err != nil {
		return VideoTags{}, err
	}
	defer file.Close()

	var tags VideoTags
	// ReadBoxStructure tracks the ilst context that ©day and data need to decode.
	_, err = mp4.ReadBoxStructure(file, func(h *mp4.ReadHandle) (interface{}, error) {
		switch {
		case pathEqual(h.Path, movieHeaderPath):
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, fmt.Errorf("read mvhd: %w", err)
			}
			if mvhd, ok := box.(*mp4.Mvhd); ok {
				tags.Encoded = formatContainerTime(mvhd.GetCreationTime())
				tags.Tagged = formatContainerTime(mvhd.GetModificationTime())
			}
			return nil, nil
		case pathEqual(h.Path, recordedPath):
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, fmt.Errorf("read ©day: %w", err)
			}
			if data, ok := box.(*mp4.Data); ok && tags.Recorded == "" {
				tags.Recorded = strings.TrimSpace(strings.TrimRight(string(data.Data), "\x00"))
			}
			return nil, nil
		case pathPrefix(h.Path, movieHeaderPath), pathPrefix(h.Path, recordedPath):
			return h.Expand()
		}
		return nil, nil
	})
	if err != nil {
		if tags.First() != "" {
			return tags, nil
		}
		return VideoTags{}, fmt.Errorf("read boxes: %w", err)
	}
	return tags, nil
}

func pathEqual(p, want mp4.BoxPath) bool {
	return len(p) == len(want) && pathPrefix(p, want)
}

// pathPrefix reports whether p is want or an ancestor of it.
func pathPrefix(p, want mp4.BoxPath) bool {
	if len(p) > len(want) {
		return false
	}
	for i := range p {
		if p[i] != want[i] {
			return false
		}
	}
	return true
}

func formatContainerTime(seconds uint64) string {
	if seconds <= mp4EpochOffset {
		return ""
	}
	return time.Unix(int64(seconds-mp4EpochOffset), 0).UTC().Format(containerTimeLayout)
}
