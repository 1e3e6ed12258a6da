package service

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/storage"
)

type materialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	ListByClass(ctx context.Context, classID string) ([]models.Material, error)
}

type materialClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

const materialCachePrefix = "materials:class:"

// MaterialService manages class learning materials. Class listings are
// cached with a short TTL and invalidated on upload.
type MaterialService struct {
	repo    materialRepository
	classes materialClassRepository
	storage uploadStorage
	cache   *CacheService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewMaterialService constructs a MaterialService instance.
func NewMaterialService(repo materialRepository, classes materialClassRepository, store uploadStorage, cache *CacheService, ttl time.Duration, logger *zap.Logger) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, classes: classes, storage: store, cache: cache, ttl: ttl, logger: logger}
}

// Upload stores a material file for a class. An absent title falls back
// to the uploaded file's original name; the type tag is its MIME type.
func (s *MaterialService) Upload(ctx context.Context, classID, teacherID, title, description string, fileHeader *multipart.FileHeader) (*models.Material, error) {
	if fileHeader == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "material file is required")
	}

	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read material file")
	}
	defer file.Close() //nolint:errcheck

	filename := storage.GenerateFilename("material", fileHeader.Filename)
	if _, err := s.storage.SaveUpload(filename, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store material file")
	}

	if title == "" {
		title = fileHeader.Filename
	}
	material := &models.Material{
		ClassID:     classID,
		TeacherID:   teacherID,
		Title:       title,
		Description: description,
		Type:        fileHeader.Header.Get("Content-Type"),
		FileURL:     "/uploads/" + filename,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}

	if err := s.cache.Invalidate(ctx, materialCachePrefix+classID+"*"); err != nil {
		s.logger.Warn("material cache invalidation failed", zap.String("class_id", classID), zap.Error(err))
	}
	return material, nil
}

// ListByClass returns a class's materials, newest first, through the cache.
func (s *MaterialService) ListByClass(ctx context.Context, classID string) ([]models.Material, bool, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	key := materialCachePrefix + classID
	var cached []models.Material
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	materials, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	if err := s.cache.Set(ctx, key, materials, s.ttl); err != nil {
		s.logger.Warn("material cache write failed", zap.String("class_id", classID), zap.Error(err))
	}
	return materials, false, nil
}
