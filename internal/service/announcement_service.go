package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type announcementRepository interface {
	ListGlobal(ctx context.Context) ([]models.AnnouncementDetail, error)
	ListByClass(ctx context.Context, classID string) ([]models.AnnouncementDetail, error)
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type announcementClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// AnnouncementService manages the global and class-scoped announcement pools.
type AnnouncementService struct {
	repo      announcementRepository
	classes   announcementClassRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService instance.
func NewAnnouncementService(repo announcementRepository, classes announcementClassRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AnnouncementService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// ListGlobal returns the global announcement pool, newest first.
func (s *AnnouncementService) ListGlobal(ctx context.Context) ([]models.AnnouncementDetail, error) {
	items, err := s.repo.ListGlobal(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return items, nil
}

// ListByClass returns the announcement pool of one class.
func (s *AnnouncementService) ListByClass(ctx context.Context, classID string) ([]models.AnnouncementDetail, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}
	items, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return items, nil
}

// CreateGlobal posts an announcement visible to everyone.
func (s *AnnouncementService) CreateGlobal(ctx context.Context, authorID string, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	return s.create(ctx, authorID, nil, req)
}

// CreateForClass posts an announcement scoped to one class.
func (s *AnnouncementService) CreateForClass(ctx context.Context, authorID, classID string, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}
	return s.create(ctx, authorID, &classID, req)
}

func (s *AnnouncementService) create(ctx context.Context, authorID string, classID *string, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	announcement := &models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		ClassID:   classID,
		IsGlobal:  classID == nil,
		Important: req.Important,
		AuthorID:  authorID,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

// Update applies a partial update; only the author may edit. Absent
// fields keep their prior values.
func (s *AnnouncementService) Update(ctx context.Context, id, callerID string, req models.UpdateAnnouncementRequest) (*models.Announcement, error) {
	announcement, err := s.findOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = *req.Content
	}
	if req.Important != nil {
		announcement.Important = *req.Important
	}
	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return announcement, nil
}

// Delete removes an announcement; only the author may delete.
func (s *AnnouncementService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.findOwned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

func (s *AnnouncementService) findOwned(ctx context.Context, id, callerID string) (*models.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch announcement")
	}
	if announcement.AuthorID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can modify this announcement")
	}
	return announcement, nil
}
