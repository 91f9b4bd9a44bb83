package streaming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlaylistDefaultShape(t *testing.T) {
	playlist := BuildPlaylist(5, 10.0)

	assert.True(t, strings.HasPrefix(playlist, "#EXTM3U\n"))
	assert.Contains(t, playlist, "#EXT-X-VERSION:3")
	assert.Contains(t, playlist, "#EXT-X-TARGETDURATION:10")
	assert.Contains(t, playlist, "#EXT-X-MEDIA-SEQUENCE:0")
	assert.True(t, strings.HasSuffix(playlist, "#EXT-X-ENDLIST\n"))

	for _, segment := range []string{"segment1.ts", "segment2.ts", "segment3.ts", "segment4.ts", "segment5.ts"} {
		assert.Contains(t, playlist, segment)
	}
	assert.NotContains(t, playlist, "segment6.ts")
	assert.Equal(t, 5, strings.Count(playlist, "#EXTINF:10.0,"))
}

func TestBuildPlaylistTargetDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		want     string
	}{
		{name: "fractional_rounds_up", duration: 6.5, want: "#EXT-X-TARGETDURATION:7"},
		{name: "whole_seconds", duration: 4.0, want: "#EXT-X-TARGETDURATION:4"},
		{name: "zero_clamps_to_one", duration: 0, want: "#EXT-X-TARGETDURATION:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, BuildPlaylist(1, tt.duration), tt.want)
		})
	}
}

func TestSegmentPayloadIsStable(t *testing.T) {
	assert.Equal(t, []byte("FAKE_VIDEO_DATA_SEGMENT_"), SegmentPayload())
}
