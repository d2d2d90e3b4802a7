package formats

// Kind is the media type of a candidate.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Candidate is one downloadable variant offered to the caller.
//
// FormatID is either a concrete extractor format id or a selector
// expression; the download stage accepts both.
type Candidate struct {
	Type     Kind   `json:"type"`
	Quality  string `json:"quality"`
	Height   int    `json:"height,omitempty"`
	FormatID string `json:"format_id"`
	Label    string `json:"label"`
}

// Preset is a static catalogue row.
type Preset struct {
	Quality  string
	Height   int
	Label    string
	Selector string
}

func (p Preset) candidate(kind Kind) Candidate {
	return Candidate{
		Type:     kind,
		Quality:  p.Quality,
		Height:   p.Height,
		FormatID: p.Selector,
		Label:    p.Label,
	}
}

// BestHeight is the nominal height of the "best available" fallback tier. It
// only has to sort above every real tier.
const BestHeight = 9999

// FallbackVideo is offered when the extractor gave no usable video formats,
// typically because the site refused an unauthenticated metadata request.
// Selectors are resolved against live extractor state at download time.
var FallbackVideo = []Preset{
	{Quality: "2160p", Height: 2160, Label: "Video (MP4) - 2160p (4K)", Selector: "bestvideo[height<=2160]"},
	{Quality: "1440p", Height: 1440, Label: "Video (MP4) - 1440p (2K)", Selector: "bestvideo[height<=1440]"},
	{Quality: "1080p", Height: 1080, Label: "Video (MP4) - 1080p (Full HD)", Selector: "bestvideo[height<=1080]"},
	{Quality: "720p", Height: 720, Label: "Video (MP4) - 720p (HD)", Selector: "bestvideo[height<=720]"},
	{Quality: "480p", Height: 480, Label: "Video (MP4) - 480p", Selector: "bestvideo[height<=480]"},
	{Quality: "360p", Height: 360, Label: "Video (MP4) - 360p", Selector: "bestvideo[height<=360]"},
	{Quality: "best", Height: BestHeight, Label: "Video - Best Available Quality", Selector: "bestvideo[height<=9999]"},
}

// AudioCatalogue is appended to every result. Audio is always re-encoded on
// download, so these describe target encodings, not source streams.
var AudioCatalogue = []Preset{
	{Quality: "mp3-320", Label: "Audio (MP3) - 320kbps (Best)", Selector: "bestaudio"},
	{Quality: "mp3-192", Label: "Audio (MP3) - 192kbps (High)", Selector: "bestaudio"},
	{Quality: "mp3-128", Label: "Audio (MP3) - 128kbps (Standard)", Selector: "bestaudio"},
	{Quality: "m4a", Label: "Audio (M4A) - Best Quality", Selector: "bestaudio"},
	{Quality: "wav", Label: "Audio (WAV) - Lossless", Selector: "bestaudio"},
}

func presetCandidates(presets []Preset, kind Kind) []Candidate {
	out := make([]Candidate, 0, len(presets))
	for _, p := range presets {
		out = append(out, p.candidate(kind))
	}
	return out
}
