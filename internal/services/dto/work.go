package dto

// SaveWorkRequest is the full work object as sent on create and update.
// Subtables are replaced wholesale on every write; the response is rebuilt
// from the stored rows, never from client-provided IDs.
type SaveWorkRequest struct {
	Slug             string              `json:"slug" validate:"max=100,slug"`
	Title            string              `json:"title" validate:"required,max=100"`
	ShortDescription string              `json:"short_description" validate:"max=500"`
	LongDescription  string              `json:"long_description"`
	Attachments      []AttachmentPayload `json:"attachments" validate:"dive"`
	Links            []LinkPayload       `json:"links" validate:"dive"`
	Tags             []TagPayload        `json:"tags" validate:"dive"`
}

// AttachmentPayload carries the inline bytes of a small attachment, or a
// reference to the head of an uploaded big-file chain.
type AttachmentPayload struct {
	AttachmentKind string  `json:"attachment_kind" validate:"required,attachment-kind"`
	ContentType    string  `json:"content_type" validate:"required,max=100"`
	Filename       string  `json:"filename" validate:"required,max=100"`
	Title          *string `json:"title"`
	BytesBase64    string  `json:"bytes_base64"`
	BigFileUUID    *string `json:"big_file_uuid" validate:"omitempty,uuid4"`
}

type LinkPayload struct {
	Title string `json:"title" validate:"required,max=100"`
	Href  string `json:"href" validate:"required,url,max=500"`
}

// TagPayload order in the request array defines display order.
type TagPayload struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

// WorkResponse mirrors the stored work row plus its subtables.
type WorkResponse struct {
	ID               int32                `json:"id"`
	Slug             string               `json:"slug"`
	Title            string               `json:"title"`
	ShortDescription string               `json:"short_description"`
	LongDescription  string               `json:"long_description"`
	Attachments      []AttachmentResponse `json:"attachments"`
	Links            []LinkResponse       `json:"links"`
	Tags             []TagResponse        `json:"tags"`
}

type AttachmentResponse struct {
	ID             int32   `json:"id"`
	WorkID         int32   `json:"work_id"`
	AttachmentKind string  `json:"attachment_kind"`
	ContentType    string  `json:"content_type"`
	Filename       string  `json:"filename"`
	Title          *string `json:"title"`
	BytesBase64    string  `json:"bytes_base64"`
	BigFileUUID    *string `json:"big_file_uuid"`
}

type LinkResponse struct {
	ID     int32  `json:"id"`
	WorkID int32  `json:"work_id"`
	Title  string `json:"title"`
	Href   string `json:"href"`
}

type TagResponse struct {
	ID     int32  `json:"id"`
	WorkID int32  `json:"work_id"`
	Tag    string `json:"tag"`
}
