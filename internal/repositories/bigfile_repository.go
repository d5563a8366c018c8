package repositories

import (
	"errors"

	"folio_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPartNotFound = errors.New("big-file part not found")

// PartWithFile is a chain part joined with the metadata of the attachment
// it belongs to, as needed to serve a download.
type PartWithFile struct {
	models.BigFilePart
	ContentType string
	Filename    string
}

type BigFileRepository interface {
	AttachmentOwned(db *gorm.DB, attachmentID int32, userID int32) (bool, error)
	InsertPart(db *gorm.DB, part *models.BigFilePart) error
	LinkPrevious(db *gorm.DB, attachmentID int32, prevUUID string, nextUUID string) (int32, error)
	DeleteOtherParts(db *gorm.DB, attachmentID int32, keepUUID string) error
	SetAttachmentHead(db *gorm.DB, attachmentID int32, headUUID string) error
	UpdateWholeFileLength(db *gorm.DB, attachmentID int32, length int32) error
	FindVisibleByUUID(db *gorm.DB, partUUID string, userID *int32) (*PartWithFile, error)
}

type BigFileRepositoryImpl struct{}

func NewBigFileRepository() BigFileRepository {
	return &BigFileRepositoryImpl{}
}

func (r *BigFileRepositoryImpl) AttachmentOwned(db *gorm.DB, attachmentID int32, userID int32) (bool, error) {
	var count int64
	err := db.Table("work_attachments").
		Joins("JOIN work_rights ON work_rights.work_id = work_attachments.work_id").
		Where("work_attachments.id = ? AND work_rights.user_id = ?", attachmentID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BigFileRepositoryImpl) InsertPart(db *gorm.DB, part *models.BigFilePart) error {
	return db.Create(part).Error
}

// LinkPrevious points the tail part at the freshly appended one and
// reports the tail's accumulated whole_file_length. The tail must belong
// to the same attachment, otherwise the caller is trying to graft onto
// someone else's chain.
func (r *BigFileRepositoryImpl) LinkPrevious(db *gorm.DB, attachmentID int32, prevUUID string, nextUUID string) (int32, error) {
	var prev models.BigFilePart
	err := db.Where("uuid = ? AND work_attachment_id = ?", prevUUID, attachmentID).First(&prev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPartNotFound
		}
		return 0, err
	}

	err = db.Model(&models.BigFilePart{}).
		Where("uuid = ?", prevUUID).
		Update("next_uuid", nextUUID).Error
	if err != nil {
		return 0, err
	}
	return prev.WholeFileLength, nil
}

// DeleteOtherParts clears every part of the attachment except keepUUID.
// Starting a new chain orphans the previous one, this is the cleanup.
func (r *BigFileRepositoryImpl) DeleteOtherParts(db *gorm.DB, attachmentID int32, keepUUID string) error {
	return db.
		Where("work_attachment_id = ? AND uuid <> ?", attachmentID, keepUUID).
		Delete(&models.BigFilePart{}).Error
}

func (r *BigFileRepositoryImpl) SetAttachmentHead(db *gorm.DB, attachmentID int32, headUUID string) error {
	result := db.Model(&models.WorkAttachment{}).
		Where("id = ?", attachmentID).
		Update("big_file_uuid", headUUID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkNotFound
	}
	return nil
}

func (r *BigFileRepositoryImpl) UpdateWholeFileLength(db *gorm.DB, attachmentID int32, length int32) error {
	return db.Model(&models.BigFilePart{}).
		Where("work_attachment_id = ?", attachmentID).
		Update("whole_file_length", length).Error
}

// FindVisibleByUUID fetches one part together with the owning attachment's
// content type and filename, gated by the same visibility predicate as the
// work itself.
func (r *BigFileRepositoryImpl) FindVisibleByUUID(db *gorm.DB, partUUID string, userID *int32) (*PartWithFile, error) {
	query := db.Table("big_file_parts").
		Select("DISTINCT big_file_parts.*, work_attachments.content_type AS content_type, work_attachments.filename AS filename").
		Joins("JOIN work_attachments ON work_attachments.id = big_file_parts.work_attachment_id").
		Joins("JOIN works ON works.id = work_attachments.work_id").
		Joins("LEFT JOIN work_rights ON work_rights.work_id = works.id").
		Joins("LEFT JOIN works_in_categories ON works_in_categories.work_id = works.id").
		Joins("LEFT JOIN categories ON categories.id = works_in_categories.category_id").
		Joins("LEFT JOIN portfolios ON portfolios.id = categories.portfolio_id").
		Joins("LEFT JOIN portfolio_rights ON portfolio_rights.portfolio_id = portfolios.id").
		Where("big_file_parts.uuid = ?", partUUID)
	if userID != nil {
		query = query.Where(
			"work_rights.user_id = ? OR portfolio_rights.user_id = ? OR portfolios.published_at IS NOT NULL",
			*userID, *userID,
		)
	} else {
		query = query.Where("portfolios.published_at IS NOT NULL")
	}

	var row PartWithFile
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, err
	}
	return &row, nil
}
