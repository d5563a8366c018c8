package services

import (
	"context"
	"errors"

	"folio_backend/internal/logger"
	"folio_backend/internal/models"
	"folio_backend/internal/repositories"
	"folio_backend/internal/services/dto"
	"folio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type WorkService interface {
	Create(ctx context.Context, db *gorm.DB, userID int32, slug string, req *dto.SaveWorkRequest) (*dto.WorkResponse, error)
	Update(ctx context.Context, db *gorm.DB, userID int32, originalSlug string, req *dto.SaveWorkRequest) (*dto.WorkResponse, error)
	ListOwned(ctx context.Context, db *gorm.DB, userID int32) ([]dto.WorkResponse, error)
	GetBySlug(ctx context.Context, db *gorm.DB, userID *int32, slug string) (*dto.WorkResponse, error)
}

type workService struct {
	workRepo repositories.WorkRepository
}

func NewWorkService(workRepo repositories.WorkRepository) WorkService {
	return &workService{workRepo: workRepo}
}

func (s *workService) Create(ctx context.Context, db *gorm.DB, userID int32, slug string, req *dto.SaveWorkRequest) (*dto.WorkResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DbTransactionBegin(tx.Error)
	}
	defer tx.Rollback()

	work := models.Work{
		Slug:             slug,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
	}
	if err := s.workRepo.Create(tx, &work, userID); err != nil {
		if errors.Is(err, repositories.ErrSlugTaken) {
			return nil, apperrors.SlugTaken()
		}
		return nil, apperrors.DbError(err)
	}

	response, err := s.replaceSubtables(tx, &work, userID, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DbTransactionCommit(err)
	}
	logger.CtxInfo(ctx, "work created", "slug", work.Slug, "work_id", work.ID)
	return response, nil
}

func (s *workService) Update(ctx context.Context, db *gorm.DB, userID int32, originalSlug string, req *dto.SaveWorkRequest) (*dto.WorkResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DbTransactionBegin(tx.Error)
	}
	defer tx.Rollback()

	newSlug := req.Slug
	if newSlug == "" {
		newSlug = originalSlug
	}
	work := models.Work{
		Slug:             newSlug,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
	}
	if err := s.workRepo.Update(tx, originalSlug, userID, &work); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSlugTaken):
			return nil, apperrors.SlugTaken()
		case errors.Is(err, repositories.ErrWorkNotFound):
			return nil, apperrors.NoSuchSlug()
		case errors.Is(err, repositories.ErrNotOwner):
			logger.CtxWarn(ctx, "work update denied", "slug", originalSlug, "user_id", userID)
			return nil, apperrors.NoSuchSlug()
		default:
			return nil, apperrors.DbError(err)
		}
	}

	response, err := s.replaceSubtables(tx, &work, userID, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DbTransactionCommit(err)
	}
	return response, nil
}

func (s *workService) ListOwned(ctx context.Context, db *gorm.DB, userID int32) ([]dto.WorkResponse, error) {
	rows, err := s.workRepo.FindOwned(db, userID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}

	responses := make([]dto.WorkResponse, 0, len(rows))
	for i := range rows {
		response, err := s.hydrate(db, &rows[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

func (s *workService) GetBySlug(ctx context.Context, db *gorm.DB, userID *int32, slug string) (*dto.WorkResponse, error) {
	work, err := s.workRepo.FindVisibleBySlug(db, slug, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkNotFound) {
			return nil, apperrors.NoSuchSlug()
		}
		return nil, apperrors.DbError(err)
	}
	return s.hydrate(db, work)
}

// replaceSubtables rewrites attachments, links and tags wholesale and
// builds the response from the rows that actually landed.
func (s *workService) replaceSubtables(tx *gorm.DB, work *models.Work, userID int32, req *dto.SaveWorkRequest) (*dto.WorkResponse, error) {
	attachments, err := s.workRepo.ReplaceAttachments(tx, work.ID, userID, attachmentInputs(req.Attachments))
	if err != nil {
		if errors.Is(err, repositories.ErrChainNotFound) {
			// Unknown and foreign chain references are indistinguishable.
			return nil, apperrors.NoSuchFile()
		}
		return nil, apperrors.DbError(err)
	}

	links := make([]models.WorkLink, 0, len(req.Links))
	for _, l := range req.Links {
		links = append(links, models.WorkLink{Title: l.Title, Href: l.Href})
	}
	links, err = s.workRepo.ReplaceLinks(tx, work.ID, links)
	if err != nil {
		return nil, apperrors.DbError(err)
	}

	tagNames := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		tagNames = append(tagNames, t.Tag)
	}
	tags, err := s.workRepo.ReplaceTags(tx, work.ID, tagNames)
	if err != nil {
		return nil, apperrors.DbError(err)
	}

	return workResponse(work, attachments, links, tags), nil
}

func (s *workService) hydrate(db *gorm.DB, work *models.Work) (*dto.WorkResponse, error) {
	attachments, err := s.workRepo.FetchAttachments(db, work.ID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	links, err := s.workRepo.FetchLinks(db, work.ID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	tags, err := s.workRepo.FetchTags(db, work.ID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	return workResponse(work, attachments, links, tags), nil
}

func attachmentInputs(payloads []dto.AttachmentPayload) []repositories.AttachmentInput {
	inputs := make([]repositories.AttachmentInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, repositories.AttachmentInput{
			AttachmentKind: models.AttachmentKind(p.AttachmentKind),
			ContentType:    p.ContentType,
			Filename:       p.Filename,
			Title:          p.Title,
			BytesBase64:    p.BytesBase64,
			BigFileUUID:    p.BigFileUUID,
		})
	}
	return inputs
}

func workResponse(work *models.Work, attachments []models.WorkAttachment, links []models.WorkLink, tags []models.WorkTag) *dto.WorkResponse {
	attachmentResponses := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		attachmentResponses = append(attachmentResponses, dto.AttachmentResponse{
			ID:             a.ID,
			WorkID:         a.WorkID,
			AttachmentKind: string(a.AttachmentKind),
			ContentType:    a.ContentType,
			Filename:       a.Filename,
			Title:          a.Title,
			BytesBase64:    a.BytesBase64,
			BigFileUUID:    a.BigFileUUID,
		})
	}

	linkResponses := make([]dto.LinkResponse, 0, len(links))
	for _, l := range links {
		linkResponses = append(linkResponses, dto.LinkResponse{ID: l.ID, WorkID: l.WorkID, Title: l.Title, Href: l.Href})
	}

	tagResponses := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		tagResponses = append(tagResponses, dto.TagResponse{ID: t.ID, WorkID: t.WorkID, Tag: t.Tag})
	}

	return &dto.WorkResponse{
		ID:               work.ID,
		Slug:             work.Slug,
		Title:            work.Title,
		ShortDescription: work.ShortDescription,
		LongDescription:  work.LongDescription,
		Attachments:      attachmentResponses,
		Links:            linkResponses,
		Tags:             tagResponses,
	}
}
