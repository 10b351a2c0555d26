package media

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/service/media"
	"github.com/orderdesk/order-api/pkg/errors"
)

// formField is the multipart field carrying the upload batch.
const formField = "files"

type Handler struct {
	svc *media.Service
}

func NewHandler(svc *media.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	customer := r.Group("/orders/:id/media")
	{
		customer.POST("", h.UploadCustomer)
		customer.GET("", h.ListCustomer)
		customer.DELETE("/:fileId", h.DeleteCustomer)
	}

	staff := r.Group("/orders/:id/staff-media")
	{
		staff.POST("", h.UploadStaff)
		staff.GET("", h.ListStaff)
		staff.PATCH("/:fileId", h.UpdateStaff)
		staff.DELETE("/:fileId", h.DeleteStaff)
	}
}

func (h *Handler) UploadCustomer(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	uploads, closeAll, err := openUploads(c)
	if err != nil {
		handler.Error(c, err)
		return
	}
	defer closeAll()

	files, err := h.svc.UploadCustomer(c.Request.Context(), actor, orderID, uploads)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "files uploaded", gin.H{
		"uploaded_files": len(files),
		"files":          files,
	})
}

func (h *Handler) ListCustomer(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	files, err := h.svc.ListCustomer(c.Request.Context(), actor, orderID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "files retrieved", files)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}
	fileID, err := parseUUID(c, "fileId", "file ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.svc.DeleteCustomer(c.Request.Context(), actor, orderID, fileID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "file deleted", nil)
}

func (h *Handler) UploadStaff(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	uploads, closeAll, err := openUploads(c)
	if err != nil {
		handler.Error(c, err)
		return
	}
	defer closeAll()

	files, err := h.svc.UploadStaff(c.Request.Context(), actor, orderID, uploads)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "files uploaded", gin.H{
		"uploaded_files": len(files),
		"files":          files,
	})
}

func (h *Handler) ListStaff(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	files, err := h.svc.ListStaff(c.Request.Context(), actor, orderID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "files retrieved", files)
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}
	fileID, err := parseUUID(c, "fileId", "file ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	var req model.UpdateStaffMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	file, err := h.svc.UpdateStaff(c.Request.Context(), actor, orderID, fileID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "file updated", file)
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	orderID, err := parseUUID(c, "id", "order ID")
	if err != nil {
		handler.Error(c, err)
		return
	}
	fileID, err := parseUUID(c, "fileId", "file ID")
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.svc.DeleteStaff(c.Request.Context(), actor, orderID, fileID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "file deleted", nil)
}

// openUploads turns the multipart batch into streamed Upload values. The
// returned closer releases the part readers once the service is done.
func openUploads(c *gin.Context) ([]media.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, errors.Validation("invalid multipart form", err)
	}
	headers := form.File[formField]
	if len(headers) == 0 {
		return nil, nil, errors.Validation("no files provided", nil)
	}

	uploads := make([]media.Upload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, errors.Validation("unreadable file in request", err)
		}
		opened = append(opened, f)
		uploads = append(uploads, media.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        f,
		})
	}
	return uploads, closeAll, nil
}

func parseUUID(c *gin.Context, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, errors.Validation("invalid "+what, err)
	}
	return id, nil
}
