package formats

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// noCodec is what the extractor reports for a missing video stream.
const noCodec = "none"

// maxHeight bounds decoded heights; anything larger is not a real frame size.
const maxHeight = 1 << 16

// RawFormat is one encoding variant as reported by the extractor.
//
// Values come straight from extractor output and are not trusted: any field
// may be missing, null or of the wrong JSON type. Decoding never fails on a
// single bad field, it leaves the zero value instead.
type RawFormat struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Height     int     `json:"height"`
	TBR        float64 `json:"tbr"`
	FormatNote string  `json:"format_note"`
}

func (f *RawFormat) UnmarshalJSON(b []byte) error {
	*f = RawFormat{}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		// not an object, keep the zero descriptor
		return nil
	}

	f.FormatID = asString(m["format_id"])
	f.Ext = asString(m["ext"])
	f.VCodec = asString(m["vcodec"])
	f.ACodec = asString(m["acodec"])
	f.Height = asHeight(m["height"])
	f.TBR = asFloat(m["tbr"])
	f.FormatNote = asString(m["format_note"])
	return nil
}

// HasVideo reports whether the descriptor carries a video stream.
func (f RawFormat) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != noCodec
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	default:
		return 0
	}
}

// asHeight accepts whole pixel counts only. Fractional or out of range
// values decode to 0, which no tier admits.
func asHeight(v any) int {
	h := asFloat(v)
	if h <= 0 || h > maxHeight || h != math.Trunc(h) {
		return 0
	}
	return int(h)
}
