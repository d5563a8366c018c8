package dto

// AppendFilePartRequest appends one chunk to an attachment's big-file
// chain. A null PreviousUUID starts a fresh chain and drops the old one.
type AppendFilePartRequest struct {
	WorkAttachmentID int32   `json:"work_attachment_id" validate:"required"`
	PreviousUUID     *string `json:"previous_uuid" validate:"omitempty,uuid4"`
	PartBytesBase64  string  `json:"part_bytes_base64" validate:"required"`
}

type FilePartCreatedResponse struct {
	UUID string `json:"uuid"`
}

// FilePart is one decoded chunk ready to be streamed, with the chain
// metadata the responder needs.
type FilePart struct {
	UUID            string
	NextUUID        *string
	Bytes           []byte
	Filename        string
	ContentType     string
	WholeFileLength int32
}
