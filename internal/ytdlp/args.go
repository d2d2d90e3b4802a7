package ytdlp

import (
	"fmt"
	"regexp"
	"strings"

	"mediafetch/internal/formats"

	"github.com/samber/lo"
)

var (
	audioFormats = []string{"mp3", "m4a", "wav", "aac", "flac", "opus", "vorbis", "alac"}
	heightRe     = regexp.MustCompile(`^(\d+)p$`)
)

// DownloadArgs describes one download invocation.
type DownloadArgs struct {
	URL            string
	Kind           formats.Kind
	Quality        string // candidate quality, e.g. "mp3-320", "m4a", "720p"
	FormatID       string // concrete format id or selector expression
	OutputTemplate string
	FFmpegLocation string
	Extra          []string
}

// Build returns the extractor command line, URL last.
func (a DownloadArgs) Build() []string {
	args := []string{
		"--output", a.OutputTemplate,
		"--no-warnings",
		"--newline",
		"--restrict-filenames",
		"--windows-filenames",
	}
	if a.FFmpegLocation != "" {
		args = append(args, "--ffmpeg-location", a.FFmpegLocation)
	}
	args = append(args, a.Extra...)

	if a.Kind == formats.KindAudio {
		format, quality := AudioSettings(a.Quality)
		args = append(args, "--extract-audio", "--audio-format", format, "--audio-quality", quality)
	} else {
		args = append(args, "-f", VideoSelector(a.FormatID, a.Quality), "--merge-output-format", "mp4")
	}

	return append(args, "--", a.URL)
}

// AudioSettings maps a candidate quality to the extractor's --audio-format and
// --audio-quality values. Quality is a VBR level, 0 being best.
func AudioSettings(quality string) (format, audioQuality string) {
	format, bitrate := "mp3", "192"

	switch {
	case strings.Contains(quality, "-"):
		parts := strings.SplitN(quality, "-", 2)
		format, bitrate = parts[0], parts[1]
	case quality == "320kbps":
		// value sent by older frontends
		bitrate = "320"
	case quality != "":
		format = quality
	}

	format = strings.ToLower(format)
	if !lo.Contains(audioFormats, format) {
		format = "mp3"
	}

	if format != "mp3" {
		return format, "0"
	}
	switch bitrate {
	case "320":
		return format, "0"
	case "128":
		return format, "5"
	default:
		return format, "2"
	}
}

// VideoSelector builds a -f expression from a candidate. Concrete ids and
// selector expressions are treated alike: try merging with the best audio,
// then the expression on its own, then whatever is best.
func VideoSelector(formatID, quality string) string {
	sel := strings.TrimSpace(formatID)
	if sel == "" {
		switch m := heightRe.FindStringSubmatch(quality); {
		case m != nil:
			sel = fmt.Sprintf("bestvideo[height<=%s]", m[1])
		case quality == "best":
			sel = "bestvideo"
		default:
			return "best"
		}
	}
	if sel == "best" {
		return sel
	}

	single := sel
	if strings.HasPrefix(sel, "bestvideo") {
		single = "best" + strings.TrimPrefix(sel, "bestvideo")
	}
	return fmt.Sprintf("%s+bestaudio/%s/best", sel, single)
}
