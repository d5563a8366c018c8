package repositories

import (
	"errors"
	"fmt"

	"folio_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrNotOwner          = errors.New("caller does not own the resource")
	ErrSlugTaken         = errors.New("slug already in use")
	ErrUnknownWorkSlug   = errors.New("referenced work slug does not exist")
)

// CategoryInput is one category as sent by the client: a title plus the
// slugs of member works. IDs are never taken from the client.
type CategoryInput struct {
	Title     string
	WorkSlugs []string
}

// CategoryDetail pairs a stored category row with its member work slugs.
type CategoryDetail struct {
	Row       models.PortfolioCategory
	WorkSlugs []string
}

type PortfolioRepository interface {
	Create(db *gorm.DB, portfolio *models.Portfolio, userID int32) error
	Update(db *gorm.DB, originalSlug string, userID int32, portfolio *models.Portfolio) error
	FindOwned(db *gorm.DB, userID int32) ([]models.Portfolio, error)
	FindVisibleBySlug(db *gorm.DB, slug string, userID *int32) (*models.Portfolio, error)

	ReplaceCategories(db *gorm.DB, portfolioID int32, inputs []CategoryInput) ([]CategoryDetail, error)
	FetchCategories(db *gorm.DB, portfolioID int32) ([]CategoryDetail, error)
}

type PortfolioRepositoryImpl struct{}

func NewPortfolioRepository() PortfolioRepository {
	return &PortfolioRepositoryImpl{}
}

func (r *PortfolioRepositoryImpl) Create(db *gorm.DB, portfolio *models.Portfolio, userID int32) error {
	if err := db.Create(portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return err
	}

	result := db.Create(&models.PortfolioRight{PortfolioID: portfolio.ID, UserID: userID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		// A rights row that didn't land means the data is corrupt.
		panic(fmt.Sprintf("portfolio_rights insert affected %d rows, want 1", result.RowsAffected))
	}
	return nil
}

// Update rewrites the row matching (slug, ownership). When nothing matches,
// a follow-up probe tells ErrPortfolioNotFound apart from ErrNotOwner so the
// caller can decide what to reveal.
func (r *PortfolioRepositoryImpl) Update(db *gorm.DB, originalSlug string, userID int32, portfolio *models.Portfolio) error {
	result := db.Model(&models.Portfolio{}).
		Where("slug = ? AND id IN (SELECT portfolio_id FROM portfolio_rights WHERE user_id = ?)", originalSlug, userID).
		Updates(map[string]interface{}{
			"published_at": portfolio.PublishedAt,
			"slug":         portfolio.Slug,
			"title":        portfolio.Title,
			"subtitle":     portfolio.Subtitle,
			"author":       portfolio.Author,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Portfolio{}).Where("slug = ?", originalSlug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPortfolioNotFound
		}
		return ErrNotOwner
	}

	var updated models.Portfolio
	if err := db.Where("slug = ?", portfolio.Slug).First(&updated).Error; err != nil {
		return err
	}
	*portfolio = updated
	return nil
}

func (r *PortfolioRepositoryImpl) FindOwned(db *gorm.DB, userID int32) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	err := db.
		Joins("JOIN portfolio_rights ON portfolio_rights.portfolio_id = portfolios.id").
		Where("portfolio_rights.user_id = ?", userID).
		Find(&portfolios).Error
	return portfolios, err
}

// FindVisibleBySlug returns the portfolio iff the caller owns it or it is
// published. A nil userID is an unauthenticated reader.
func (r *PortfolioRepositoryImpl) FindVisibleBySlug(db *gorm.DB, slug string, userID *int32) (*models.Portfolio, error) {
	query := db.Where("slug = ?", slug)
	if userID != nil {
		query = query.Where(
			"published_at IS NOT NULL OR id IN (SELECT portfolio_id FROM portfolio_rights WHERE user_id = ?)",
			*userID,
		)
	} else {
		query = query.Where("published_at IS NOT NULL")
	}

	var portfolio models.Portfolio
	if err := query.First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

// ReplaceCategories deletes and re-inserts every category of the portfolio,
// then rebuilds the membership rows from the referenced work slugs. The
// returned details are reconstructed from the freshly inserted rows.
func (r *PortfolioRepositoryImpl) ReplaceCategories(db *gorm.DB, portfolioID int32, inputs []CategoryInput) ([]CategoryDetail, error) {
	err := db.Where(
		"category_id IN (SELECT id FROM categories WHERE portfolio_id = ?)", portfolioID,
	).Delete(&models.WorkInCategory{}).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("portfolio_id = ?", portfolioID).Delete(&models.PortfolioCategory{}).Error; err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		return []CategoryDetail{}, nil
	}

	rows := make([]models.PortfolioCategory, 0, len(inputs))
	for _, input := range inputs {
		rows = append(rows, models.PortfolioCategory{PortfolioID: portfolioID, Title: input.Title})
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, err
	}

	// Resolve the union of referenced slugs into work ids.
	slugSet := make(map[string]struct{})
	for _, input := range inputs {
		for _, slug := range input.WorkSlugs {
			slugSet[slug] = struct{}{}
		}
	}
	workIDs := make(map[string]int32, len(slugSet))
	if len(slugSet) > 0 {
		allSlugs := make([]string, 0, len(slugSet))
		for slug := range slugSet {
			allSlugs = append(allSlugs, slug)
		}
		var works []models.Work
		if err := db.Where("slug IN ?", allSlugs).Find(&works).Error; err != nil {
			return nil, err
		}
		for _, work := range works {
			workIDs[work.Slug] = work.ID
		}
		// The UI can't produce an unknown slug; seeing one here means the
		// store and the request disagree about reality.
		for slug := range slugSet {
			if _, ok := workIDs[slug]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownWorkSlug, slug)
			}
		}
	}

	var memberships []models.WorkInCategory
	for i, row := range rows {
		for _, slug := range inputs[i].WorkSlugs {
			memberships = append(memberships, models.WorkInCategory{
				CategoryID: row.ID,
				WorkID:     workIDs[slug],
			})
		}
	}
	if len(memberships) > 0 {
		if err := db.Create(&memberships).Error; err != nil {
			return nil, err
		}
	}

	details := make([]CategoryDetail, 0, len(rows))
	for i, row := range rows {
		slugs := inputs[i].WorkSlugs
		if slugs == nil {
			slugs = []string{}
		}
		details = append(details, CategoryDetail{Row: row, WorkSlugs: slugs})
	}
	return details, nil
}

func (r *PortfolioRepositoryImpl) FetchCategories(db *gorm.DB, portfolioID int32) ([]CategoryDetail, error) {
	var rows []models.PortfolioCategory
	if err := db.Where("portfolio_id = ?", portfolioID).Find(&rows).Error; err != nil {
		return nil, err
	}

	type categorySlug struct {
		CategoryID int32
		Slug       string
	}
	var pairs []categorySlug
	err := db.Table("works").
		Select("categories.id AS category_id, works.slug AS slug").
		Joins("JOIN works_in_categories ON works_in_categories.work_id = works.id").
		Joins("JOIN categories ON categories.id = works_in_categories.category_id").
		Where("categories.portfolio_id = ?", portfolioID).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}

	details := make([]CategoryDetail, 0, len(rows))
	for _, row := range rows {
		slugs := []string{}
		for _, pair := range pairs {
			if pair.CategoryID == row.ID {
				slugs = append(slugs, pair.Slug)
			}
		}
		details = append(details, CategoryDetail{Row: row, WorkSlugs: slugs})
	}
	return details, nil
}
