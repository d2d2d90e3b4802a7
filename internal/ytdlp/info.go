package ytdlp

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"mediafetch/internal/formats"
)

// Info is the subset of `yt-dlp -J` output the backend uses.
type Info struct {
	ID             string  `json:"id"`              // Video identifier
	Title          string  `json:"title"`           // Video title
	Uploader       string  `json:"uploader"`        // Full name of the video uploader
	Duration       float64 `json:"duration"`        // Length of the video in seconds
	DurationString string  `json:"duration_string"` // Human readable length, e.g. "3:32"

	Thumbnail  string      `json:"thumbnail"`
	Thumbnails []Thumbnail `json:"thumbnails"`

	Formats []formats.RawFormat `json:"formats"`
}

type Thumbnail struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// UnmarshalJSON decodes each field on its own. A field of the wrong type is
// left empty instead of failing the whole document; only output that is not
// a JSON object is an error.
func (i *Info) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	*i = Info{
		ID:             text(m["id"]),
		Title:          text(m["title"]),
		Uploader:       text(m["uploader"]),
		Duration:       number(m["duration"]),
		DurationString: text(m["duration_string"]),
		Thumbnail:      text(m["thumbnail"]),
	}

	var thumbs []json.RawMessage
	if json.Unmarshal(m["thumbnails"], &thumbs) == nil {
		for _, raw := range thumbs {
			var t map[string]json.RawMessage
			if json.Unmarshal(raw, &t) != nil || t == nil {
				continue
			}
			i.Thumbnails = append(i.Thumbnails, Thumbnail{ID: text(t["id"]), URL: text(t["url"])})
		}
	}

	var fs []formats.RawFormat
	if json.Unmarshal(m["formats"], &fs) == nil {
		i.Formats = fs
	}
	return nil
}

// ParseInfo decodes extractor JSON output.
func ParseInfo(b []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(b, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DisplayDuration prefers the extractor's own formatting and falls back to
// whole seconds.
func (i *Info) DisplayDuration() string {
	if i.DurationString != "" {
		return i.DurationString
	}
	if i.Duration <= 0 {
		return ""
	}
	return strconv.FormatInt(int64(i.Duration), 10)
}

// ThumbnailURL returns the main thumbnail, or the last listed one which the
// extractor orders best-last.
func (i *Info) ThumbnailURL() string {
	if i.Thumbnail != "" {
		return i.Thumbnail
	}
	for j := len(i.Thumbnails) - 1; j >= 0; j-- {
		if i.Thumbnails[j].URL != "" {
			return i.Thumbnails[j].URL
		}
	}
	return ""
}

func text(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func number(raw json.RawMessage) float64 {
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return n
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
