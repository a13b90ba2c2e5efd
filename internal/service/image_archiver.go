package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"jadwal-backend/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PhotoArchiver re-hosts punch photos on the managed image CDN.
type PhotoArchiver interface {
	IsArchived(rawURL string) bool
	ArchiveRecord(ctx context.Context, rec *domain.AttendanceRecord, force bool) int
}

// ImageArchiver downloads photos from the time-clock host (size-capped) and
// re-uploads them to the image CDN. Every step falls back to the original
// URL on failure: one broken photo never fails a record.
type ImageArchiver struct {
	download     *resty.Client
	upload       *resty.Client
	uploadURL    string
	apiKey       string
	archivedHost string
	folderPrefix string
	maxBytes     int64
	logger       *zap.Logger
}

var _ PhotoArchiver = (*ImageArchiver)(nil)

type ImageArchiverConfig struct {
	UploadURL        string
	APIKey           string
	ArchivedHost     string
	FolderPrefix     string
	MaxDownloadBytes int64
	DownloadTimeout  time.Duration
	UploadTimeout    time.Duration
}

type uploadResponse struct {
	URL string `json:"url"`
}

func NewImageArchiver(cfg ImageArchiverConfig, logger *zap.Logger) *ImageArchiver {
	return &ImageArchiver{
		download:     resty.New().SetTimeout(cfg.DownloadTimeout),
		upload:       resty.New().SetTimeout(cfg.UploadTimeout),
		uploadURL:    cfg.UploadURL,
		apiKey:       cfg.APIKey,
		archivedHost: cfg.ArchivedHost,
		folderPrefix: cfg.FolderPrefix,
		maxBytes:     cfg.MaxDownloadBytes,
		logger:       logger,
	}
}

// IsArchived recognizes URLs already hosted on the CDN by host marker.
func (a *ImageArchiver) IsArchived(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Host, a.archivedHost)
}

// folderFor partitions archived photos by year/month of the punch date.
func (a *ImageArchiver) folderFor(date string) string {
	if len(date) >= 7 {
		return a.folderPrefix + "/" + strings.ReplaceAll(date[:7], "-", "/")
	}
	return a.folderPrefix
}

// ArchiveRecord rewrites the record's photo URLs to archived ones, best
// effort. The four photos are processed concurrently; only photos that
// resolved to a new URL are updated. Returns how many were rewritten.
func (a *ImageArchiver) ArchiveRecord(ctx context.Context, rec *domain.AttendanceRecord, force bool) int {
	folder := a.folderFor(rec.Date)
	photos := rec.Photos()

	var wg sync.WaitGroup
	rewritten := make([]bool, len(photos))
	for i, slot := range photos {
		orig := *slot
		if orig == "" {
			continue
		}
		if a.IsArchived(orig) && !force {
			continue
		}
		wg.Add(1)
		go func(i int, slot *string, orig string) {
			defer wg.Done()
			if archived, ok := a.archiveOne(ctx, orig, folder); ok {
				*slot = archived
				rewritten[i] = true
			}
		}(i, slot, orig)
	}
	wg.Wait()

	count := 0
	for _, ok := range rewritten {
		if ok {
			count++
		}
	}
	return count
}

// archiveOne downloads then re-uploads a single photo. ok=false means the
// caller keeps the original URL.
func (a *ImageArchiver) archiveOne(ctx context.Context, rawURL, folder string) (string, bool) {
	data, err := a.downloadPhoto(ctx, rawURL)
	if err != nil {
		a.logger.Warn("photo download failed, keeping original URL",
			zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	archivedURL, err := a.uploadPhoto(ctx, data, fileNameFor(rawURL), folder)
	if err != nil {
		a.logger.Warn("photo upload failed, keeping original URL",
			zap.String("url", rawURL), zap.Error(err))
		return "", false
	}
	return archivedURL, true
}

func (a *ImageArchiver) downloadPhoto(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := a.download.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	if a.maxBytes > 0 && int64(len(body)) > a.maxBytes {
		return nil, fmt.Errorf("photo exceeds %d bytes", a.maxBytes)
	}
	return body, nil
}

func (a *ImageArchiver) uploadPhoto(ctx context.Context, data []byte, fileName, folder string) (string, error) {
	var result uploadResponse
	resp, err := a.upload.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetFileReader("file", fileName, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"fileName": fileName,
			"folder":   folder,
		}).
		SetResult(&result).
		Post(a.uploadURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode())
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return result.URL, nil
}

// fileNameFor builds a collision-resistant name, keeping the source
// extension when it has one.
func fileNameFor(rawURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return uuid.NewString() + ext
}
