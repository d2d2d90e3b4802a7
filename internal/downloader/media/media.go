package media

import (
	"path/filepath"
	"regexp"
	"strings"
)

var sanitizer = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

func SanitizeFileName(name string) string {
	name = sanitizer.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Trim(name, " .")

	return name
}

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".opus": "audio/ogg",
	".ogg":  "audio/ogg",
}

// ContentType guesses the MIME type of a downloaded file from its name.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
