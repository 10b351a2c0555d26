package model

import (
	"strings"

	"github.com/google/uuid"
)

// FileKind is the coarse categorization of an uploaded file.
type FileKind string

const (
	FileKindImage    FileKind = "IMAGE"
	FileKindVideo    FileKind = "VIDEO"
	FileKindDocument FileKind = "DOCUMENT"
	FileKindAudio    FileKind = "AUDIO"
	FileKindOther    FileKind = "OTHER"
)

// KindForMIME maps a MIME type to its file kind.
func KindForMIME(mimeType string) FileKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FileKindImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileKindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return FileKindAudio
	case mimeType == "application/pdf":
		return FileKindDocument
	default:
		return FileKindOther
	}
}

// MediaFileBase holds the fields shared by both media channels. File content,
// path, size and MIME type are immutable after upload.
type MediaFileBase struct {
	Base
	OrderID          uuid.UUID `json:"order_id" db:"order_id"`
	UploaderID       uuid.UUID `json:"uploader_id" db:"uploader_id"`
	StorageFilename  string    `json:"storage_filename" db:"storage_filename"`
	OriginalFilename string    `json:"original_filename" db:"original_filename"`
	MimeType         string    `json:"mime_type" db:"mime_type"`
	SizeBytes        int64     `json:"size_bytes" db:"size_bytes"`
	FileKind         FileKind  `json:"file_kind" db:"file_kind"`
	StoragePath      string    `json:"storage_path" db:"storage_path"`
	URL              string    `json:"url" db:"url"`
}

// CustomerMediaFile is owned by the uploading customer and deletable only
// while the parent order is PENDING.
type CustomerMediaFile struct {
	MediaFileBase
}

// StaffMediaFile is owned by the order. Visible to the customer only once the
// order is COMPLETED; always visible and editable for staff/admin.
type StaffMediaFile struct {
	MediaFileBase
	Description *string `json:"description,omitempty" db:"description"`
	IsPublic    bool    `json:"is_public" db:"is_public"`
}

// UpdateStaffMediaRequest edits staff-media metadata. Nil fields unchanged.
type UpdateStaffMediaRequest struct {
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// Empty reports whether no field was supplied.
func (r *UpdateStaffMediaRequest) Empty() bool {
	return r.Description == nil && r.IsPublic == nil
}
