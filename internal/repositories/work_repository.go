package repositories

import (
	"errors"
	"fmt"

	"folio_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrWorkNotFound  = errors.New("work not found")
	ErrChainNotFound = errors.New("big-file chain not found")
)

// AttachmentInput is one attachment as sent by the client. BigFileUUID, when
// set, references the head of an already-uploaded chain that must survive
// the replacement of the attachment rows.
type AttachmentInput struct {
	AttachmentKind models.AttachmentKind
	ContentType    string
	Filename       string
	Title          *string
	BytesBase64    string
	BigFileUUID    *string
}

type WorkRepository interface {
	Create(db *gorm.DB, work *models.Work, userID int32) error
	Update(db *gorm.DB, originalSlug string, userID int32, work *models.Work) error
	FindOwned(db *gorm.DB, userID int32) ([]models.Work, error)
	FindVisibleBySlug(db *gorm.DB, slug string, userID *int32) (*models.Work, error)

	ReplaceAttachments(db *gorm.DB, workID int32, userID int32, inputs []AttachmentInput) ([]models.WorkAttachment, error)
	ReplaceLinks(db *gorm.DB, workID int32, links []models.WorkLink) ([]models.WorkLink, error)
	ReplaceTags(db *gorm.DB, workID int32, tags []string) ([]models.WorkTag, error)

	FetchAttachments(db *gorm.DB, workID int32) ([]models.WorkAttachment, error)
	FetchLinks(db *gorm.DB, workID int32) ([]models.WorkLink, error)
	FetchTags(db *gorm.DB, workID int32) ([]models.WorkTag, error)
}

type WorkRepositoryImpl struct{}

func NewWorkRepository() WorkRepository {
	return &WorkRepositoryImpl{}
}

func (r *WorkRepositoryImpl) Create(db *gorm.DB, work *models.Work, userID int32) error {
	if err := db.Create(work).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return err
	}

	result := db.Create(&models.WorkRight{WorkID: work.ID, UserID: userID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		panic(fmt.Sprintf("work_rights insert affected %d rows, want 1", result.RowsAffected))
	}
	return nil
}

func (r *WorkRepositoryImpl) Update(db *gorm.DB, originalSlug string, userID int32, work *models.Work) error {
	result := db.Model(&models.Work{}).
		Where("slug = ? AND id IN (SELECT work_id FROM work_rights WHERE user_id = ?)", originalSlug, userID).
		Updates(map[string]interface{}{
			"slug":              work.Slug,
			"title":             work.Title,
			"short_description": work.ShortDescription,
			"long_description":  work.LongDescription,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Work{}).Where("slug = ?", originalSlug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrWorkNotFound
		}
		return ErrNotOwner
	}

	var updated models.Work
	if err := db.Where("slug = ?", work.Slug).First(&updated).Error; err != nil {
		return err
	}
	*work = updated
	return nil
}

func (r *WorkRepositoryImpl) FindOwned(db *gorm.DB, userID int32) ([]models.Work, error) {
	var works []models.Work
	err := db.
		Joins("JOIN work_rights ON work_rights.work_id = works.id").
		Where("work_rights.user_id = ?", userID).
		Find(&works).Error
	return works, err
}

// FindVisibleBySlug applies the two-tier visibility predicate: the caller
// owns the work, or owns some portfolio listing it, or some portfolio
// listing it is published. A nil userID gets the published branch only.
func (r *WorkRepositoryImpl) FindVisibleBySlug(db *gorm.DB, slug string, userID *int32) (*models.Work, error) {
	query := db.Table("works").
		Select("DISTINCT works.*").
		Joins("LEFT JOIN work_rights ON work_rights.work_id = works.id").
		Joins("LEFT JOIN works_in_categories ON works_in_categories.work_id = works.id").
		Joins("LEFT JOIN categories ON categories.id = works_in_categories.category_id").
		Joins("LEFT JOIN portfolios ON portfolios.id = categories.portfolio_id").
		Joins("LEFT JOIN portfolio_rights ON portfolio_rights.portfolio_id = portfolios.id").
		Where("works.slug = ?", slug)
	if userID != nil {
		query = query.Where(
			"work_rights.user_id = ? OR portfolio_rights.user_id = ? OR portfolios.published_at IS NOT NULL",
			*userID, *userID,
		)
	} else {
		query = query.Where("portfolios.published_at IS NOT NULL")
	}

	var work models.Work
	if err := query.Take(&work).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, err
	}
	return &work, nil
}

// ReplaceAttachments swaps out the work's attachment rows while keeping any
// referenced big-file chains alive: chains are migrated from the replaced
// attachment rows to the new ones before the old rows go away, so a chain
// that is mid-stream to a client keeps resolving. Chains that no new row
// references are deleted together with the old attachment rows.
func (r *WorkRepositoryImpl) ReplaceAttachments(db *gorm.DB, workID int32, userID int32, inputs []AttachmentInput) ([]models.WorkAttachment, error) {
	var oldIDs []int32
	err := db.Model(&models.WorkAttachment{}).Where("work_id = ?", workID).Pluck("id", &oldIDs).Error
	if err != nil {
		return nil, err
	}

	attachments := make([]models.WorkAttachment, 0, len(inputs))
	for _, input := range inputs {
		row := models.WorkAttachment{
			WorkID:         workID,
			AttachmentKind: input.AttachmentKind,
			ContentType:    input.ContentType,
			Filename:       input.Filename,
			Title:          input.Title,
			BytesBase64:    input.BytesBase64,
			BigFileUUID:    input.BigFileUUID,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, err
		}

		if row.BigFileUUID != nil {
			if err := r.migrateChain(db, *row.BigFileUUID, row.ID, userID); err != nil {
				return nil, err
			}
		}
		attachments = append(attachments, row)
	}

	if len(oldIDs) > 0 {
		// Referenced chains were migrated to the new rows above; whatever
		// still hangs off the old rows goes away with them.
		if err := db.Where("work_attachment_id IN ?", oldIDs).Delete(&models.BigFilePart{}).Error; err != nil {
			return nil, err
		}
		if err := db.Where("id IN ?", oldIDs).Delete(&models.WorkAttachment{}).Error; err != nil {
			return nil, err
		}
	}
	return attachments, nil
}

// migrateChain points every part of the chain containing headUUID at the
// freshly inserted attachment row. The chain must currently hang off an
// attachment of a work the caller owns; a foreign chain gets the same
// answer as an absent one.
func (r *WorkRepositoryImpl) migrateChain(db *gorm.DB, headUUID string, newAttachmentID int32, userID int32) error {
	var part models.BigFilePart
	if err := db.Where("uuid = ?", headUUID).First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrChainNotFound, headUUID)
		}
		return err
	}

	var owned int64
	err := db.Table("work_attachments").
		Joins("JOIN work_rights ON work_rights.work_id = work_attachments.work_id").
		Where("work_attachments.id = ? AND work_rights.user_id = ?", part.WorkAttachmentID, userID).
		Count(&owned).Error
	if err != nil {
		return err
	}
	if owned == 0 {
		return fmt.Errorf("%w: %s", ErrChainNotFound, headUUID)
	}

	return db.Model(&models.BigFilePart{}).
		Where("work_attachment_id = ?", part.WorkAttachmentID).
		Update("work_attachment_id", newAttachmentID).Error
}

func (r *WorkRepositoryImpl) ReplaceLinks(db *gorm.DB, workID int32, links []models.WorkLink) ([]models.WorkLink, error) {
	if err := db.Where("work_id = ?", workID).Delete(&models.WorkLink{}).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []models.WorkLink{}, nil
	}

	rows := make([]models.WorkLink, 0, len(links))
	for _, link := range links {
		rows = append(rows, models.WorkLink{WorkID: workID, Title: link.Title, Href: link.Href})
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceTags re-inserts the tags with a dense order assigned from input
// order.
func (r *WorkRepositoryImpl) ReplaceTags(db *gorm.DB, workID int32, tags []string) ([]models.WorkTag, error) {
	if err := db.Where("work_id = ?", workID).Delete(&models.WorkTag{}).Error; err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return []models.WorkTag{}, nil
	}

	rows := make([]models.WorkTag, 0, len(tags))
	for i, tag := range tags {
		rows = append(rows, models.WorkTag{WorkID: workID, Tag: tag, OrderNumber: int32(i)})
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *WorkRepositoryImpl) FetchAttachments(db *gorm.DB, workID int32) ([]models.WorkAttachment, error) {
	attachments := []models.WorkAttachment{}
	err := db.Where("work_id = ?", workID).Find(&attachments).Error
	return attachments, err
}

func (r *WorkRepositoryImpl) FetchLinks(db *gorm.DB, workID int32) ([]models.WorkLink, error) {
	links := []models.WorkLink{}
	err := db.Where("work_id = ?", workID).Find(&links).Error
	return links, err
}

func (r *WorkRepositoryImpl) FetchTags(db *gorm.DB, workID int32) ([]models.WorkTag, error) {
	tags := []models.WorkTag{}
	err := db.Where("work_id = ?", workID).Order("order_number ASC").Find(&tags).Error
	return tags, err
}
