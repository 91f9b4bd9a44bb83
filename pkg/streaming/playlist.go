package streaming

import (
	"fmt"
	"math"
	"strings"
)

// Content types served by the streaming endpoints.
const (
	ContentTypePlaylist = "application/vnd.apple.mpegurl"
	ContentTypeSegment  = "video/mp2t"
)

// segmentPayload is the placeholder body served for every segment.
// Real transport is out of scope; callers only assert on status codes
// and content type.
var segmentPayload = []byte("FAKE_VIDEO_DATA_SEGMENT_")

// BuildPlaylist renders a VOD-style HLS playlist with segmentCount
// segments of segmentDuration seconds each, named segment1.ts through
// segmentN.ts.
func BuildPlaylist(segmentCount int, segmentDuration float64) string {
	var b strings.Builder

	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")
	b.WriteString(fmt.Sprintf("#EXT-X-TARGETDURATION:%d\n", targetDuration(segmentDuration)))
	b.WriteString("#EXT-X-MEDIA-SEQUENCE:0\n")

	for i := 1; i <= segmentCount; i++ {
		b.WriteString(fmt.Sprintf("#EXTINF:%.1f,\n", segmentDuration))
		b.WriteString(fmt.Sprintf("segment%d.ts\n", i))
	}

	b.WriteString("#EXT-X-ENDLIST\n")
	return b.String()
}

// SegmentPayload returns the placeholder bytes for a segment body.
func SegmentPayload() []byte {
	return segmentPayload
}

// targetDuration returns the #EXT-X-TARGETDURATION value: the ceiling
// of the segment duration, at least 1.
func targetDuration(segmentDuration float64) int {
	if segmentDuration <= 0 {
		return 1
	}
	return int(math.Ceil(segmentDuration))
}
