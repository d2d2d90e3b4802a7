// Package formats turns raw extractor format lists into the ordered,
// de-duplicated set of variants offered to users.
//
// Normalize never fails. Degenerate input falls back first to a broader
// filter and then to a static catalogue of selector expressions, and the
// static audio catalogue is always present.
package formats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Report describes how a Normalize call arrived at its result.
type Report struct {
	Total     int    // raw descriptors seen
	Tier      string // tier that produced the filtered set, empty if none did
	Filtered  int    // descriptors kept by that tier
	Video     int    // video candidates emitted
	Synthetic bool   // video candidates came from FallbackVideo
}

// Normalize returns video candidates (height descending) followed by the audio
// catalogue. It is safe for concurrent use.
func Normalize(raw []RawFormat) []Candidate {
	out, _ := NormalizeReport(raw)
	return out
}

// NormalizeReport is Normalize plus a summary for logging.
func NormalizeReport(raw []RawFormat) ([]Candidate, Report) {
	rep := Report{Total: len(raw)}

	tier, filtered := selectTier(raw)
	rep.Tier = tier
	rep.Filtered = len(filtered)

	video := uniqueHeights(filtered)
	if len(video) == 0 {
		video = presetCandidates(FallbackVideo, KindVideo)
		rep.Synthetic = true
	}
	slices.SortStableFunc(video, func(a, b Candidate) int {
		return cmp.Compare(b.Height, a.Height)
	})
	rep.Video = len(video)

	return append(video, presetCandidates(AudioCatalogue, KindAudio)...), rep
}

func selectTier(raw []RawFormat) (string, []RawFormat) {
	for _, t := range Tiers {
		if kept := t.Apply(raw); len(kept) > 0 {
			return t.Name, kept
		}
	}
	return "", nil
}

// uniqueHeights keeps the first descriptor per positive height.
func uniqueHeights(ordered []RawFormat) []Candidate {
	positive := lo.Filter(ordered, func(f RawFormat, _ int) bool {
		return f.Height > 0
	})
	return lo.Map(lo.UniqBy(positive, func(f RawFormat) int {
		return f.Height
	}), func(f RawFormat, _ int) Candidate {
		return videoCandidate(f)
	})
}

func videoCandidate(f RawFormat) Candidate {
	ext := f.Ext
	if ext == "" {
		ext = "mp4"
	}
	return Candidate{
		Type:     KindVideo,
		Quality:  fmt.Sprintf("%dp", f.Height),
		Height:   f.Height,
		FormatID: f.FormatID,
		Label:    fmt.Sprintf("Video (%s) - %dp", strings.ToUpper(ext), f.Height),
	}
}
