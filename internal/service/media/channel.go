package media

import (
	"io"

	"github.com/orderdesk/order-api/pkg/errors"
)

// Upload is one file in an upload batch. Data is streamed to the blob store
// without full buffering; Size comes from the multipart header.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Channel captures the per-channel upload constraints. The customer and
// staff channels share one validation/store/record flow and differ only in
// these values and in the gates applied by the service.
type Channel struct {
	Name          string
	MaxFiles      int
	MaxFileBytes  int64
	MaxTotalBytes int64
	AllowedMIME   map[string]struct{}
}

// CustomerChannel: attachments uploaded by the order's customer.
var CustomerChannel = Channel{
	Name:          "customer",
	MaxFiles:      10,
	MaxFileBytes:  5 << 20,
	MaxTotalBytes: 10 << 20,
	AllowedMIME: mimeSet(
		"image/jpeg",
		"image/png",
		"image/gif",
		"video/mp4",
		"video/quicktime",
		"video/x-msvideo",
		"application/pdf",
	),
}

// StaffChannel: deliverables and working files uploaded by staff.
var StaffChannel = Channel{
	Name:          "staff",
	MaxFiles:      20,
	MaxFileBytes:  50 << 20,
	MaxTotalBytes: 100 << 20,
	AllowedMIME: mimeSet(
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
		"video/mp4",
		"video/quicktime",
		"video/x-msvideo",
		"video/x-matroska",
		"video/webm",
		"video/x-flv",
		"audio/mpeg",
		"audio/wav",
		"application/pdf",
	),
}

func mimeSet(types ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}

// ValidateBatch checks the whole batch before anything is stored, so a
// rejected request never leaves blobs behind.
func (c Channel) ValidateBatch(uploads []Upload) error {
	if len(uploads) == 0 {
		return errors.Validation("no files provided", nil)
	}
	if len(uploads) > c.MaxFiles {
		return errors.Validation("too many files in one request", nil)
	}

	var total int64
	for _, u := range uploads {
		if _, ok := c.AllowedMIME[u.ContentType]; !ok {
			return errors.UnsupportedFileType(u.Filename, u.ContentType)
		}
		if u.Size > c.MaxFileBytes {
			return errors.FileTooLarge(u.Filename, u.Size, c.MaxFileBytes)
		}
		total += u.Size
	}
	if total > c.MaxTotalBytes {
		return errors.BatchTooLarge(total, c.MaxTotalBytes)
	}
	return nil
}
