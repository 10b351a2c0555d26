package media

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-api/pkg/errors"
)

func upload(name, mime string, size int64) Upload {
	return Upload{Filename: name, ContentType: mime, Size: size, Data: strings.NewReader("x")}
}

func TestValidateBatch_Customer(t *testing.T) {
	tests := []struct {
		name     string
		uploads  []Upload
		wantKind errors.Kind
	}{
		{"single image ok", []Upload{upload("a.jpg", "image/jpeg", 1 << 20)}, ""},
		{"pdf ok", []Upload{upload("quote.pdf", "application/pdf", 1 << 20)}, ""},
		{"empty batch", nil, errors.KindValidation},
		{"webp rejected on customer channel", []Upload{upload("a.webp", "image/webp", 1024)}, errors.KindFileType},
		{"audio rejected on customer channel", []Upload{upload("a.mp3", "audio/mpeg", 1024)}, errors.KindFileType},
		{"file over 5MB", []Upload{upload("big.png", "image/png", 6 << 20)}, errors.KindFileSize},
		{"batch over 10MB", []Upload{
			upload("a.mp4", "video/mp4", 4 << 20),
			upload("b.mp4", "video/mp4", 4 << 20),
			upload("c.mp4", "video/mp4", 4 << 20),
		}, errors.KindFileSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CustomerChannel.ValidateBatch(tt.uploads)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errors.FromError(err).Kind)
		})
	}
}

func TestValidateBatch_CustomerFileCountLimit(t *testing.T) {
	var uploads []Upload
	for i := 0; i < 11; i++ {
		uploads = append(uploads, upload("a.jpg", "image/jpeg", 1024))
	}
	err := CustomerChannel.ValidateBatch(uploads)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.FromError(err).Kind)
}

func TestValidateBatch_Staff(t *testing.T) {
	// 40MB passes the staff per-file limit where the customer channel caps at 5MB.
	assert.NoError(t, StaffChannel.ValidateBatch([]Upload{upload("cut.mkv", "video/x-matroska", 40 << 20)}))

	// The extended staff MIME set.
	for _, mime := range []string{"image/webp", "video/webm", "video/x-flv", "audio/mpeg", "audio/wav"} {
		assert.NoError(t, StaffChannel.ValidateBatch([]Upload{upload("f", mime, 1024)}), mime)
	}

	err := StaffChannel.ValidateBatch([]Upload{upload("raw.bin", "application/octet-stream", 1024)})
	require.Error(t, err)
	assert.Equal(t, errors.KindFileType, errors.FromError(err).Kind)
}

func TestValidateBatch_StaffOversizeFile(t *testing.T) {
	err := StaffChannel.ValidateBatch([]Upload{upload("render.mp4", "video/mp4", 51 << 20)})
	require.Error(t, err)

	appErr := errors.FromError(err)
	assert.Equal(t, errors.KindFileSize, appErr.Kind)
	assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.StatusCode())
	assert.Equal(t, "render.mp4", appErr.Details["filename"])
}

func TestValidateBatch_StaffAggregateLimit(t *testing.T) {
	uploads := []Upload{
		upload("a.mp4", "video/mp4", 45 << 20),
		upload("b.mp4", "video/mp4", 45 << 20),
		upload("c.mp4", "video/mp4", 45 << 20),
	}
	err := StaffChannel.ValidateBatch(uploads)
	require.Error(t, err)

	// Aggregate violations are a 400, unlike the per-file 413.
	appErr := errors.FromError(err)
	assert.Equal(t, errors.KindFileSize, appErr.Kind)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
}
