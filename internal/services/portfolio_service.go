package services

import (
	"context"
	"errors"
	"time"

	"folio_backend/internal/logger"
	"folio_backend/internal/models"
	"folio_backend/internal/repositories"
	"folio_backend/internal/services/dto"
	"folio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PortfolioService interface {
	Create(ctx context.Context, db *gorm.DB, userID int32, slug string, req *dto.SavePortfolioRequest) (*dto.PortfolioResponse, error)
	Update(ctx context.Context, db *gorm.DB, userID int32, originalSlug string, req *dto.SavePortfolioRequest) (*dto.PortfolioResponse, error)
	ListOwned(ctx context.Context, db *gorm.DB, userID int32) ([]dto.PortfolioResponse, error)
	GetBySlug(ctx context.Context, db *gorm.DB, userID *int32, slug string) (*dto.PortfolioResponse, error)
}

type portfolioService struct {
	portfolioRepo repositories.PortfolioRepository
}

func NewPortfolioService(portfolioRepo repositories.PortfolioRepository) PortfolioService {
	return &portfolioService{portfolioRepo: portfolioRepo}
}

func (s *portfolioService) Create(ctx context.Context, db *gorm.DB, userID int32, slug string, req *dto.SavePortfolioRequest) (*dto.PortfolioResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DbTransactionBegin(tx.Error)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	portfolio := models.Portfolio{
		CreatedAt:   now,
		PublishedAt: publishedAt(req.Publish, now),
		Slug:        slug,
		Title:       req.Portfolio.Title,
		Subtitle:    req.Portfolio.Subtitle,
		Author:      req.Portfolio.Author,
	}
	if err := s.portfolioRepo.Create(tx, &portfolio, userID); err != nil {
		if errors.Is(err, repositories.ErrSlugTaken) {
			return nil, apperrors.SlugTaken()
		}
		return nil, apperrors.DbError(err)
	}

	details, err := s.portfolioRepo.ReplaceCategories(tx, portfolio.ID, categoryInputs(req.Portfolio.Categories))
	if err != nil {
		return nil, apperrors.DbError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DbTransactionCommit(err)
	}
	logger.CtxInfo(ctx, "portfolio created", "slug", portfolio.Slug, "portfolio_id", portfolio.ID)
	return portfolioResponse(&portfolio, details), nil
}

func (s *portfolioService) Update(ctx context.Context, db *gorm.DB, userID int32, originalSlug string, req *dto.SavePortfolioRequest) (*dto.PortfolioResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DbTransactionBegin(tx.Error)
	}
	defer tx.Rollback()

	newSlug := req.Portfolio.Slug
	if newSlug == "" {
		newSlug = originalSlug
	}
	portfolio := models.Portfolio{
		PublishedAt: publishedAt(req.Publish, time.Now().Unix()),
		Slug:        newSlug,
		Title:       req.Portfolio.Title,
		Subtitle:    req.Portfolio.Subtitle,
		Author:      req.Portfolio.Author,
	}
	if err := s.portfolioRepo.Update(tx, originalSlug, userID, &portfolio); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSlugTaken):
			return nil, apperrors.SlugTaken()
		case errors.Is(err, repositories.ErrPortfolioNotFound):
			return nil, apperrors.NoSuchSlug()
		case errors.Is(err, repositories.ErrNotOwner):
			// Same answer as an absent slug, so non-owners cannot probe
			// for existence.
			logger.CtxWarn(ctx, "portfolio update denied", "slug", originalSlug, "user_id", userID)
			return nil, apperrors.NoSuchSlug()
		default:
			return nil, apperrors.DbError(err)
		}
	}

	details, err := s.portfolioRepo.ReplaceCategories(tx, portfolio.ID, categoryInputs(req.Portfolio.Categories))
	if err != nil {
		return nil, apperrors.DbError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DbTransactionCommit(err)
	}
	return portfolioResponse(&portfolio, details), nil
}

func (s *portfolioService) ListOwned(ctx context.Context, db *gorm.DB, userID int32) ([]dto.PortfolioResponse, error) {
	rows, err := s.portfolioRepo.FindOwned(db, userID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}

	responses := make([]dto.PortfolioResponse, 0, len(rows))
	for i := range rows {
		details, err := s.portfolioRepo.FetchCategories(db, rows[i].ID)
		if err != nil {
			return nil, apperrors.DbError(err)
		}
		responses = append(responses, *portfolioResponse(&rows[i], details))
	}
	return responses, nil
}

func (s *portfolioService) GetBySlug(ctx context.Context, db *gorm.DB, userID *int32, slug string) (*dto.PortfolioResponse, error) {
	portfolio, err := s.portfolioRepo.FindVisibleBySlug(db, slug, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPortfolioNotFound) {
			return nil, apperrors.NoSuchSlug()
		}
		return nil, apperrors.DbError(err)
	}

	details, err := s.portfolioRepo.FetchCategories(db, portfolio.ID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	return portfolioResponse(portfolio, details), nil
}

func publishedAt(publish bool, now int64) *int64 {
	if !publish {
		return nil
	}
	return &now
}

func categoryInputs(payloads []dto.CategoryPayload) []repositories.CategoryInput {
	inputs := make([]repositories.CategoryInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, repositories.CategoryInput{Title: p.Title, WorkSlugs: p.WorkSlugs})
	}
	return inputs
}

func portfolioResponse(portfolio *models.Portfolio, details []repositories.CategoryDetail) *dto.PortfolioResponse {
	categories := make([]dto.CategoryResponse, 0, len(details))
	for _, d := range details {
		categories = append(categories, dto.CategoryResponse{
			ID:          d.Row.ID,
			PortfolioID: d.Row.PortfolioID,
			Title:       d.Row.Title,
			WorkSlugs:   d.WorkSlugs,
		})
	}
	return &dto.PortfolioResponse{
		ID:          portfolio.ID,
		CreatedAt:   portfolio.CreatedAt,
		PublishedAt: portfolio.PublishedAt,
		Slug:        portfolio.Slug,
		Title:       portfolio.Title,
		Subtitle:    portfolio.Subtitle,
		Author:      portfolio.Author,
		Categories:  categories,
	}
}
