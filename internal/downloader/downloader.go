package downloader

import (
	"context"
	"errors"
	"net/url"
	"os"
	"time"

	cr "mediafetch/internal/counting_reader"
	"mediafetch/internal/formats"
	"mediafetch/internal/logging"
	"mediafetch/internal/notice"
	"mediafetch/internal/storage"
	"mediafetch/internal/telemetry"
	"mediafetch/internal/utils"
	"mediafetch/internal/ytdlp"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// FilesRoute is the public prefix under which finished downloads are served.
const FilesRoute = "/api/files/"

type Options struct {
	InfoTimeout     time.Duration
	DownloadTimeout time.Duration
	FFmpegLocation  string
	ExtraArgs       []string
}

// Downloader fetches metadata and media through the external extractor.
type Downloader struct {
	runner ytdlp.Runner
	store  *storage.Store
	logger *logging.Logger
	opts   Options

	tracer    trace.Tracer
	calls     metric.Int64Counter
	synthetic metric.Int64Counter
}

type InfoResponse struct {
	Title     string              `json:"title"`
	Thumbnail string              `json:"thumbnail"`
	Duration  string              `json:"duration"`
	Author    string              `json:"author"`
	Formats   []formats.Candidate `json:"formats"`
}

// Request is a download order. Type, Quality and FormatID are echoed from a
// candidate returned by Info.
type Request struct {
	URL      string       `json:"url"`
	Type     formats.Kind `json:"type"`
	Quality  string       `json:"quality"`
	FormatID string       `json:"format_id"`
}

type Result struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

func NewDownloader(runner ytdlp.Runner, store *storage.Store, logger *logging.Logger, opts Options) *Downloader {
	meter := telemetry.Meter()
	// instrument creation only fails on invalid names
	calls, _ := meter.Int64Counter("extractor.calls",
		metric.WithDescription("external extractor invocations"))
	synthetic, _ := meter.Int64Counter("formats.synthetic",
		metric.WithDescription("info responses that fell back to the synthetic video catalogue"))

	return &Downloader{
		runner:    runner,
		store:     store,
		logger:    logger,
		opts:      opts,
		tracer:    telemetry.Tracer(),
		calls:     calls,
		synthetic: synthetic,
	}
}

func (d *Downloader) Info(ctx context.Context, rawURL string) (*InfoResponse, error) {
	u, err := utils.ExtractUrl(rawURL)
	if err != nil {
		return nil, errors.Join(notice.ErrInvalidURL, err)
	}

	ctx, span := d.tracer.Start(ctx, "Downloader.Info", trace.WithAttributes(attribute.String("media.url", u.String())))
	defer span.End()
	log := d.logger.Ctx(ctx)

	ictx, cancel := withTimeout(ctx, d.opts.InfoTimeout)
	defer cancel()

	out, err := d.runner.Info(ictx, u.String())
	d.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "info"), attribute.Bool("ok", err == nil)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extractor failed")
		log.Errorw("info failed", "url", u.String(), "error", err)
		switch {
		case errors.Is(ictx.Err(), context.DeadlineExceeded):
			return nil, errors.Join(notice.ErrTimeout, err)
		case errors.Is(err, cr.ErrSizeLimitReached):
			return nil, errors.Join(notice.ErrSizeLimit, err)
		default:
			return nil, errors.Join(notice.ErrInfoFailed, err)
		}
	}

	info, err := ytdlp.ParseInfo(out)
	if err != nil {
		span.RecordError(err)
		log.Errorw("info output is not json", "url", u.String(), "error", err)
		return nil, errors.Join(notice.ErrParseFailed, err)
	}

	candidates, rep := formats.NormalizeReport(info.Formats)
	log.Debugw("formats normalized",
		"total", rep.Total,
		"tier", rep.Tier,
		"filtered", rep.Filtered,
		"video", rep.Video,
		"synthetic", rep.Synthetic,
	)
	if rep.Synthetic {
		d.synthetic.Add(ctx, 1)
	}
	span.SetAttributes(attribute.Int("formats.raw", rep.Total), attribute.Int("formats.video", rep.Video))

	return &InfoResponse{
		Title:     info.Title,
		Thumbnail: info.ThumbnailURL(),
		Duration:  info.DisplayDuration(),
		Author:    info.Uploader,
		Formats:   candidates,
	}, nil
}

// Download runs the extractor into the store. The extractor may exit non-zero
// after warnings and still have produced the file, so the store is checked
// before the exit status.
func (d *Downloader) Download(ctx context.Context, req Request) (*Result, error) {
	u, err := utils.ExtractUrl(req.URL)
	if err != nil {
		return nil, errors.Join(notice.ErrInvalidURL, err)
	}

	ctx, span := d.tracer.Start(ctx, "Downloader.Download", trace.WithAttributes(
		attribute.String("media.url", u.String()),
		attribute.String("media.type", string(req.Type)),
		attribute.String("media.quality", req.Quality),
	))
	defer span.End()
	log := d.logger.Ctx(ctx)

	token := storage.NewToken()
	args := ytdlp.DownloadArgs{
		URL:            u.String(),
		Kind:           req.Type,
		Quality:        req.Quality,
		FormatID:       req.FormatID,
		OutputTemplate: d.store.Template(token),
		FFmpegLocation: d.opts.FFmpegLocation,
		Extra:          d.opts.ExtraArgs,
	}.Build()

	dctx, cancel := withTimeout(ctx, d.opts.DownloadTimeout)
	defer cancel()

	runErr := d.runner.Download(dctx, args)
	d.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "download"), attribute.Bool("ok", runErr == nil)))

	name, findErr := d.store.Find(token)
	switch {
	case findErr == nil:
		if runErr != nil {
			log.Warnw("extractor reported an error but produced a file", "file", name, "error", runErr)
		}
		log.Infow("download finished", "file", name)
		return &Result{DownloadURL: FilesRoute + url.PathEscape(name), Filename: name}, nil
	case !errors.Is(findErr, storage.ErrNotFound):
		span.RecordError(findErr)
		return nil, errors.Join(notice.ErrUnexpectedError, findErr)
	case runErr != nil:
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "extractor failed")
		log.Errorw("download failed", "url", u.String(), "error", runErr)
		if errors.Is(dctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Join(notice.ErrTimeout, runErr)
		}
		return nil, errors.Join(notice.ErrDownloadFailed, runErr)
	default:
		log.Errorw("extractor succeeded without output", "url", u.String())
		return nil, notice.ErrFileNotFound
	}
}

// Open returns a finished download by file name.
func (d *Downloader) Open(name string) (*os.File, os.FileInfo, error) {
	f, fi, err := d.store.Open(name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, notice.ErrFileNotFound
	}
	return f, fi, err
}

func withTimeout(ctx context.Context, t time.Duration) (context.Context, context.CancelFunc) {
	if t <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t)
}
