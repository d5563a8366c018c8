package models

type Work struct {
	ID               int32  `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug             string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title            string `gorm:"size:100;not null" json:"title"`
	ShortDescription string `gorm:"size:500;not null" json:"short_description"`
	LongDescription  string `gorm:"type:text;not null" json:"long_description"`
}

type WorkRight struct {
	WorkID int32 `gorm:"primaryKey" json:"work_id"`
	UserID int32 `gorm:"primaryKey;index" json:"user_id"`
}

type AttachmentKind string

const (
	AttachmentDownloadWindows AttachmentKind = "DownloadWindows"
	AttachmentDownloadLinux   AttachmentKind = "DownloadLinux"
	AttachmentDownloadMac     AttachmentKind = "DownloadMac"
	AttachmentCoverImage      AttachmentKind = "CoverImage"
	AttachmentTrailer         AttachmentKind = "Trailer"
	AttachmentScreenshot      AttachmentKind = "Screenshot"
)

// WorkAttachment either holds a small inline payload in BytesBase64 or
// points at the head of a big-file chain through BigFileUUID. When
// BigFileUUID is set it must identify an existing BigFilePart.
type WorkAttachment struct {
	ID             int32          `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkID         int32          `gorm:"not null;index" json:"work_id"`
	AttachmentKind AttachmentKind `gorm:"size:20;not null" json:"attachment_kind"`
	ContentType    string         `gorm:"size:100;not null" json:"content_type"`
	Filename       string         `gorm:"size:255;not null" json:"filename"`
	Title          *string        `gorm:"size:100" json:"title"`
	BytesBase64    string         `gorm:"type:text;not null" json:"bytes_base64"`
	BigFileUUID    *string        `gorm:"size:36" json:"big_file_uuid"`
}

type WorkLink struct {
	ID     int32  `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkID int32  `gorm:"not null;index" json:"work_id"`
	Title  string `gorm:"size:100;not null" json:"title"`
	Href   string `gorm:"size:500;not null" json:"href"`
}

// WorkTag rows carry a dense server-assigned order (0..N-1, input order).
// Reads always sort ascending by OrderNumber.
type WorkTag struct {
	ID          int32  `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkID      int32  `gorm:"not null;index" json:"work_id"`
	Tag         string `gorm:"size:100;not null" json:"tag"`
	OrderNumber int32  `gorm:"not null" json:"order_number"`
}

// BigFilePart is a node of a singly-linked chain of base64 segments forming
// one logical file. The owning attachment's BigFileUUID names the head.
// WholeFileLength is the decoded length of the entire file and is kept equal
// across every part of a chain.
type BigFilePart struct {
	UUID             string  `gorm:"size:36;primaryKey" json:"uuid"`
	NextUUID         *string `gorm:"size:36" json:"next_uuid"`
	WorkAttachmentID int32   `gorm:"not null;index" json:"work_attachment_id"`
	WholeFileLength  int32   `gorm:"not null" json:"whole_file_length"`
	BytesBase64      string  `gorm:"type:text;not null" json:"-"`
}
