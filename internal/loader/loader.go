// Package loader saves a web page together with its same-origin images,
// scripts and linked resources, rewriting the page to use the local copies.
//
// The page is written to <output>/<name>.html and its assets to
// <output>/<name>_files/. Asset failures degrade the result but never fail
// the download; they are reported through entity.PageResult.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/naming"
	"github.com/user/page-loader/internal/repository"
	"github.com/user/page-loader/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

var (
	ErrInvalidURL   = errors.New("invalid page URL")
	ErrNotDirectory = errors.New("output path is not a directory")
)

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of assets downloaded at once.
// Zero, the default, means unbounded.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}

// Loader downloads single pages.
type Loader struct {
	fetcher     repository.FetcherRepository
	logger      *zap.Logger
	concurrency int
	downloader  *Downloader
}

func New(fetcher repository.FetcherRepository, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.downloader = NewDownloader(fetcher, logger, l.concurrency)
	return l
}

// DownloadPage saves the page at rawURL into outputDir, which defaults to
// the working directory when empty, and returns where it was written.
//
// Filesystem and transport errors are returned wrapped, so errors.Is with
// fs.ErrExist, fs.ErrPermission or fs.ErrNotExist and errors.As with
// *repository.StatusError keep working.
func (l *Loader) DownloadPage(ctx context.Context, rawURL, outputDir string) (res *entity.PageResult, err error) {
	start := time.Now()
	state := StateInit
	domain := "unknown"
	log := l.logger.With(zap.String("url", rawURL))
	advance := func(next State) {
		state = next
		log.Debug("page state changed", zap.Stringer("state", next))
	}

	defer func() {
		if err != nil {
			log.Error("page download failed", zap.Stringer("last_state", state), zap.Error(err))
			advance(StateFailed)
			metrics.PagesTotal.WithLabelValues("failure").Inc()
			return
		}
		metrics.PagesTotal.WithLabelValues("success").Inc()
		metrics.PageDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
	}()

	pageURL, job, err := newPageJob(rawURL, outputDir)
	if err != nil {
		return nil, err
	}
	domain = pageURL.Hostname()
	pagePath := filepath.Join(job.OutputDir, job.PageName)
	assetsDir := filepath.Join(job.OutputDir, job.AssetsDirName)

	if err := ensureAbsent(assetsDir); err != nil {
		return nil, err
	}

	page, err := l.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return nil, err
	}
	advance(StatePageFetched)

	doc, err := parsePage(page)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", job.URL, err)
	}
	assets := extractAssets(doc, pageURL, job.AssetsDirName, log)
	tasks := plan(assets, job.OutputDir, job.AssetsDirName)
	rewrite(assets)
	declareUTF8(doc)
	rendered, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("render page %s: %w", job.URL, err)
	}
	advance(StateProcessed)
	log.Info("page processed", zap.Int("assets", len(assets)), zap.Int("downloads", len(tasks)))

	if err := writeNewFile(pagePath, []byte(rendered)); err != nil {
		return nil, err
	}
	advance(StatePageWritten)

	if err := os.Mkdir(assetsDir, 0o755); err != nil {
		return nil, err
	}
	advance(StateAssetsDirCreated)

	results := l.downloader.Download(ctx, tasks)
	advance(StateAssetsDownloaded)

	res = &entity.PageResult{
		PagePath:  pagePath,
		AssetsDir: assetsDir,
		Assets:    results,
	}
	advance(StateDone)
	log.Info("page downloaded",
		zap.String("path", pagePath),
		zap.Int("assets", len(results)),
		zap.Int("failed", len(res.Failed())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func newPageJob(rawURL, outputDir string) (*url.URL, *entity.PageJob, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	pageURL.Fragment = ""

	if outputDir == "" {
		if outputDir, err = os.Getwd(); err != nil {
			return nil, nil, err
		}
	}
	dir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	return pageURL, &entity.PageJob{
		URL:           pageURL.String(),
		OutputDir:     dir,
		PageName:      naming.PageFileName(pageURL),
		AssetsDirName: naming.AssetsDirName(pageURL),
	}, nil
}

// ensureAbsent fails with fs.ErrExist when path is already taken, which
// means an earlier run used the same output location.
func ensureAbsent(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// parsePage decodes the page to UTF-8 using its Content-Type, BOM or meta
// declaration.
func parsePage(page *entity.Resource) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(page.Body), page.ContentType)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(r)
}

// writeNewFile never replaces an existing file.
func writeNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
