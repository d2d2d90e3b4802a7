package notice

type nerror struct {
	notice
}

func NewError(text string) *nerror {
	return &nerror{notice: notice{Text: text}}
}

func (e *nerror) Error() string {
	return e.Text
}

var (
	ErrInvalidURL      = NewError("invalid url")
	ErrMissingData     = NewError("missing data")
	ErrInfoFailed      = NewError("metadata extraction failed")
	ErrParseFailed     = NewError("metadata is not valid json")
	ErrSizeLimit       = NewError("size limit reached")
	ErrDownloadFailed  = NewError("download failed")
	ErrFileNotFound    = NewError("file not found")
	ErrTimeout         = NewError("timeout")
	ErrRateLimited     = NewError("rate limited")
	ErrUnexpectedError = NewError("unexpected error")
)
