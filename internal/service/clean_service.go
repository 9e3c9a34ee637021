package service

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/Hegee0307/metadata-removal-api/internal/config"
	"github.com/Hegee0307/metadata-removal-api/internal/domain"
	"github.com/Hegee0307/metadata-removal-api/internal/repository"
	"github.com/Hegee0307/metadata-removal-api/pkg/utils"
)

// CleanService runs the acquisition and transcode pipeline. Every mode
// ends in the same place: a metadata-free JPEG or a typed error.
type CleanService interface {
	CleanUpload(ctx context.Context, payload domain.ImagePayload) ([]byte, error)
	CleanFromURL(ctx context.Context, imageURL string) ([]byte, error)
	CleanFromObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type cleanService struct {
	objects    repository.ObjectRepository
	fetcher    repository.URLFetcher
	transcoder *utils.Transcoder
	cfg        *config.Config
	log        *zap.Logger
}

func NewCleanService(objects repository.ObjectRepository, fetcher repository.URLFetcher, cfg *config.Config, log *zap.Logger) CleanService {
	return &cleanService{
		objects:    objects,
		fetcher:    fetcher,
		transcoder: utils.NewTranscoder(cfg.App.JPEGQuality, log),
		cfg:        cfg,
		log:        log,
	}
}

// ValidatePayload checks the declared size and content type against the
// configured limits. It runs before any buffering or decoding.
func ValidatePayload(size int64, contentType string, cfg *config.AppConfig) error {
	if size > cfg.MaxUploadSize {
		return domain.ErrFileTooLarge(size, cfg.MaxUploadSize)
	}
	if !slices.Contains(cfg.AllowedTypes, contentType) {
		return domain.ErrUnsupportedType(contentType)
	}
	return nil
}

func (s *cleanService) CleanUpload(ctx context.Context, payload domain.ImagePayload) ([]byte, error) {
	size := int64(len(payload.Data))
	if payload.DeclaredSize > size {
		size = payload.DeclaredSize
	}
	if err := ValidatePayload(size, payload.ContentType, &s.cfg.App); err != nil {
		return nil, err
	}

	cleaned, err := s.transcoder.Strip(payload.Data)
	if err != nil {
		return nil, domain.ErrProcessingFailed(err)
	}

	s.log.Info("Upload cleaned",
		zap.String("filename", payload.Filename),
		zap.String("content_type", payload.ContentType),
		zap.Int("input_size", len(payload.Data)),
		zap.Int("output_size", len(cleaned)))

	return cleaned, nil
}

// CleanFromURL fetches the remote body and transcodes it as-is. The
// fetched bytes get no type or size validation; the decoder is the
// backstop for non-image content.
func (s *cleanService) CleanFromURL(ctx context.Context, imageURL string) ([]byte, error) {
	data, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, domain.ErrFetchFailed(err.Error(), err)
	}

	cleaned, err := s.transcoder.Strip(data)
	if err != nil {
		return nil, domain.ErrProcessingFailed(err)
	}

	s.log.Info("Remote image cleaned",
		zap.String("url", imageURL),
		zap.Int("input_size", len(data)),
		zap.Int("output_size", len(cleaned)))

	return cleaned, nil
}

func (s *cleanService) CleanFromObject(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := s.objects.FetchObject(ctx, bucket, key)
	if err != nil {
		return nil, domain.ErrFetchFailed(err.Error(), err)
	}

	cleaned, err := s.transcoder.Strip(data)
	if err != nil {
		return nil, domain.ErrProcessingFailed(err)
	}

	s.log.Info("Object cleaned",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("input_size", len(data)),
		zap.Int("output_size", len(cleaned)))

	return cleaned, nil
}
