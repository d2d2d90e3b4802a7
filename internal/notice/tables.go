package notice

import (
	"errors"
	"net/http"
)

type entry struct {
	message string
	status  int
}

var table = map[notice]entry{
	ErrInvalidURL.notice:      {"Invalid URL. Fix it and try again", http.StatusBadRequest},
	ErrMissingData.notice:     {"Missing Data", http.StatusBadRequest},
	ErrInfoFailed.notice:      {"Failed to fetch info. Check URL or Server Log.", http.StatusInternalServerError},
	ErrParseFailed.notice:     {"Failed to parse video metadata", http.StatusInternalServerError},
	ErrSizeLimit.notice:       {"Metadata response is too large", http.StatusInternalServerError},
	ErrDownloadFailed.notice:  {"Download failed. The site may be blocking this video.", http.StatusInternalServerError},
	ErrFileNotFound.notice:    {"File not found", http.StatusNotFound},
	ErrTimeout.notice:         {"Timeout. The extractor took too long to respond. Try again later", http.StatusGatewayTimeout},
	ErrRateLimited.notice:     {"Too many requests. Slow down and try again", http.StatusTooManyRequests},
	ErrUnexpectedError.notice: {"Server error. Try again later", http.StatusInternalServerError},
}

func lookup(err error) entry {
	var parsed *nerror
	if errors.As(err, &parsed) {
		if e, ok := table[parsed.notice]; ok {
			return e
		}
	}
	return table[ErrUnexpectedError.notice]
}

// Translate returns the message shown to API callers for err.
func Translate(err error) string {
	return lookup(err).message
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	return lookup(err).status
}
