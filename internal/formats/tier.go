package formats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var (
	// videoExts are containers known to hold playable video.
	videoExts = []string{"mp4", "webm", "mkv", "mov", "avi", "flv", "3gp"}
	// excludedExts are images, storyboards and page archives.
	excludedExts = []string{"mhtml", "storyboard", "jpg", "png", "webp"}
)

// Tier is one filtering strategy. Tiers are tried in order and the first one
// that keeps anything wins.
type Tier struct {
	Name  string
	Keep  func(f RawFormat) bool
	Order func(a, b RawFormat) int
}

// Apply returns the kept descriptors in tier order. raw is left untouched.
func (t Tier) Apply(raw []RawFormat) []RawFormat {
	kept := lo.Filter(raw, func(f RawFormat, _ int) bool {
		return t.Keep(f)
	})
	if t.Order != nil {
		slices.SortStableFunc(kept, t.Order)
	}
	return kept
}

// PrimaryTier keeps real video streams in playable containers.
var PrimaryTier = Tier{
	Name: "primary",
	Keep: func(f RawFormat) bool {
		ext := strings.ToLower(f.Ext)
		validExt := lo.Contains(videoExts, ext) || !lo.Contains(excludedExts, ext)
		return f.HasVideo() && f.Height > 0 && validExt && !isStoryboard(f)
	},
	Order: byHeightThenBitrate,
}

// BroadTier tolerates descriptors without codec metadata. Storyboards stay
// excluded here too.
var BroadTier = Tier{
	Name: "broad",
	Keep: func(f RawFormat) bool {
		return f.Height > 0 && !lo.Contains(excludedExts, strings.ToLower(f.Ext)) && !isStoryboard(f)
	},
	Order: byHeightThenBitrate,
}

// Tiers is the relaxation order used by Normalize.
var Tiers = []Tier{PrimaryTier, BroadTier}

func isStoryboard(f RawFormat) bool {
	return strings.Contains(strings.ToLower(f.FormatNote), "storyboard")
}

func byHeightThenBitrate(a, b RawFormat) int {
	if c := cmp.Compare(b.Height, a.Height); c != 0 {
		return c
	}
	return cmp.Compare(b.TBR, a.TBR)
}
