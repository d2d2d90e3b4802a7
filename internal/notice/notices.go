package notice

type notice struct {
	Text string
}

func New(text string) notice {
	return notice{Text: text}
}

func (n notice) String() string {
	return n.Text
}

var (
	NoticeOnline  = New("Online")
	NoticeService = New("Media Downloader Backend")
	NoticeAPIBase = New("API Base Endpoint. Use POST /api/info or /api/download")
)
