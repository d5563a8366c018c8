package services

import (
	"context"
	"encoding/base64"
	"errors"

	"folio_backend/internal/logger"
	"folio_backend/internal/models"
	"folio_backend/internal/repositories"
	"folio_backend/internal/services/dto"
	"folio_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileService interface {
	AppendPart(ctx context.Context, db *gorm.DB, userID int32, req *dto.AppendFilePartRequest) (*dto.FilePartCreatedResponse, error)
	GetPart(ctx context.Context, db *gorm.DB, userID *int32, partUUID string) (*dto.FilePart, error)
}

type fileService struct {
	bigFileRepo repositories.BigFileRepository
}

func NewFileService(bigFileRepo repositories.BigFileRepository) FileService {
	return &fileService{bigFileRepo: bigFileRepo}
}

// AppendPart inserts one chunk into the attachment's chain. With a previous
// UUID the chunk extends the chain; without one it becomes the new head and
// every other part of the attachment is dropped (file replacement). All
// parts end up carrying the chain's total decoded length.
func (s *fileService) AppendPart(ctx context.Context, db *gorm.DB, userID int32, req *dto.AppendFilePartRequest) (*dto.FilePartCreatedResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DbTransactionBegin(tx.Error)
	}
	defer tx.Rollback()

	owned, err := s.bigFileRepo.AttachmentOwned(tx, req.WorkAttachmentID, userID)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	if !owned {
		// A non-owner gets the same answer as an absent attachment.
		logger.CtxWarn(ctx, "file part append denied", "work_attachment_id", req.WorkAttachmentID, "user_id", userID)
		return nil, apperrors.NoSuchFile()
	}

	part := models.BigFilePart{
		UUID:             uuid.NewString(),
		WorkAttachmentID: req.WorkAttachmentID,
		WholeFileLength:  0,
		BytesBase64:      req.PartBytesBase64,
	}
	if err := s.bigFileRepo.InsertPart(tx, &part); err != nil {
		return nil, apperrors.DbError(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(req.PartBytesBase64)
	if err != nil {
		return nil, apperrors.DbError(err)
	}
	wholeFileLength := int32(len(decoded))

	if req.PreviousUUID != nil {
		prevLength, err := s.bigFileRepo.LinkPrevious(tx, req.WorkAttachmentID, *req.PreviousUUID, part.UUID)
		if err != nil {
			if errors.Is(err, repositories.ErrPartNotFound) {
				return nil, apperrors.NoSuchFile()
			}
			return nil, apperrors.DbError(err)
		}
		wholeFileLength += prevLength
	} else {
		// New head, the old chain is being replaced.
		if err := s.bigFileRepo.DeleteOtherParts(tx, req.WorkAttachmentID, part.UUID); err != nil {
			return nil, apperrors.DbError(err)
		}
		if err := s.bigFileRepo.SetAttachmentHead(tx, req.WorkAttachmentID, part.UUID); err != nil {
			return nil, apperrors.DbError(err)
		}
	}

	if err := s.bigFileRepo.UpdateWholeFileLength(tx, req.WorkAttachmentID, wholeFileLength); err != nil {
		return nil, apperrors.DbError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DbTransactionCommit(err)
	}
	logger.CtxDebug(ctx, "file part appended",
		"uuid", part.UUID, "work_attachment_id", req.WorkAttachmentID, "whole_file_length", wholeFileLength)
	return &dto.FilePartCreatedResponse{UUID: part.UUID}, nil
}

// GetPart fetches one visible chain part with its bytes decoded.
func (s *fileService) GetPart(ctx context.Context, db *gorm.DB, userID *int32, partUUID string) (*dto.FilePart, error) {
	row, err := s.bigFileRepo.FindVisibleByUUID(db, partUUID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPartNotFound) {
			return nil, apperrors.NoSuchFile()
		}
		return nil, apperrors.DbError(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(row.BytesBase64)
	if err != nil {
		// Stored parts are written from validated base64, a decode
		// failure here means the row was corrupted.
		return nil, apperrors.DbError(err)
	}

	return &dto.FilePart{
		UUID:            row.UUID,
		NextUUID:        row.NextUUID,
		Bytes:           decoded,
		Filename:        row.Filename,
		ContentType:     row.ContentType,
		WholeFileLength: row.WholeFileLength,
	}, nil
}
