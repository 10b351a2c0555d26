package media

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/authz"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/internal/storage"
	"github.com/orderdesk/order-api/pkg/errors"
	"github.com/orderdesk/order-api/pkg/logger"
)

// customerUploadable are the order statuses that accept customer uploads.
var customerUploadable = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusInProgress,
}

type Service struct {
	orders repository.OrderRepository
	media  repository.MediaRepository
	store  storage.BlobStore
	logger *logger.Logger
}

func NewService(orders repository.OrderRepository, media repository.MediaRepository,
	store storage.BlobStore, logger *logger.Logger) *Service {
	return &Service{
		orders: orders,
		media:  media,
		store:  store,
		logger: logger,
	}
}

// stored tracks blobs written during a batch, for compensating deletes.
type stored struct {
	path string
}

// UploadCustomer stores a batch on the customer channel. The batch is
// observably all-or-nothing: a mid-batch failure rolls back every blob
// already transferred before the error is surfaced.
func (s *Service) UploadCustomer(ctx context.Context, actor model.Actor, orderID uuid.UUID, uploads []Upload) ([]*model.CustomerMediaFile, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUploadCustomerMedia(actor, order) {
		return nil, errors.Forbidden("only the order's customer can upload files here")
	}
	if err := requireStatus(order.Status, customerUploadable, "files can no longer be uploaded"); err != nil {
		return nil, err
	}
	if err := CustomerChannel.ValidateBatch(uploads); err != nil {
		return nil, err
	}

	files := make([]*model.CustomerMediaFile, 0, len(uploads))
	entries := make([]*model.OrderHistoryEntry, 0, len(uploads))
	var written []stored

	for _, u := range uploads {
		f := &model.CustomerMediaFile{}
		f.MediaFileBase = s.newFileBase(order.ID, actor.ID, CustomerChannel.Name, u)

		url, err := s.store.Upload(ctx, f.StoragePath, u.ContentType, u.Data)
		if err != nil {
			s.rollback(ctx, written)
			return nil, errors.Internal(fmt.Errorf("failed to store %s: %w", u.Filename, err))
		}
		written = append(written, stored{path: f.StoragePath})

		f.URL = url
		files = append(files, f)
		entries = append(entries, model.NewMediaHistory(order.ID, order.Status,
			model.HistoryActionMediaUploaded, actor.Role, CustomerChannel.Name, u.Filename, f.StoragePath))
	}

	if err := s.media.CreateCustomerFiles(ctx, files, entries); err != nil {
		s.rollback(ctx, written)
		return nil, errors.Internal(err)
	}
	return files, nil
}

// ListCustomer returns the customer-channel files. Customer uploads are
// visible to their uploader and to staff at all times.
func (s *Service) ListCustomer(ctx context.Context, actor model.Actor, orderID uuid.UUID) ([]*model.CustomerMediaFile, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewOrder(actor, order) {
		return nil, errors.Forbidden("you do not have access to this order")
	}

	files, err := s.media.ListCustomerFiles(ctx, orderID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return files, nil
}

// DeleteCustomer removes a customer file. Uploader only, and only while the
// order is still PENDING.
func (s *Service) DeleteCustomer(ctx context.Context, actor model.Actor, orderID, fileID uuid.UUID) error {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}

	file, err := s.media.GetCustomerFile(ctx, fileID)
	if err != nil {
		return s.mapRepoErr(err, "file")
	}
	if file.OrderID != orderID {
		return errors.NotFound("file")
	}
	if !authz.CanDeleteCustomerMedia(actor, file) {
		return errors.Forbidden("only the uploader can delete this file")
	}
	if err := requireStatus(order.Status, []model.OrderStatus{model.OrderStatusPending}, "files can no longer be deleted"); err != nil {
		return err
	}

	return s.deleteFile(ctx, order, actor, CustomerChannel.Name, file.OriginalFilename, file.StoragePath, func(entry *model.OrderHistoryEntry) error {
		return s.media.DeleteCustomerFile(ctx, fileID, entry)
	})
}

// UploadStaff stores a batch on the staff channel. Staff/admin only, any
// order status.
func (s *Service) UploadStaff(ctx context.Context, actor model.Actor, orderID uuid.UUID, uploads []Upload) ([]*model.StaffMediaFile, error) {
	if !authz.CanManageStaffMedia(actor) {
		return nil, errors.Forbidden("only staff can upload files here")
	}
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := StaffChannel.ValidateBatch(uploads); err != nil {
		return nil, err
	}

	files := make([]*model.StaffMediaFile, 0, len(uploads))
	entries := make([]*model.OrderHistoryEntry, 0, len(uploads))
	var written []stored

	for _, u := range uploads {
		f := &model.StaffMediaFile{}
		f.MediaFileBase = s.newFileBase(order.ID, actor.ID, StaffChannel.Name, u)

		url, err := s.store.Upload(ctx, f.StoragePath, u.ContentType, u.Data)
		if err != nil {
			s.rollback(ctx, written)
			return nil, errors.Internal(fmt.Errorf("failed to store %s: %w", u.Filename, err))
		}
		written = append(written, stored{path: f.StoragePath})

		f.URL = url
		files = append(files, f)
		entries = append(entries, model.NewMediaHistory(order.ID, order.Status,
			model.HistoryActionMediaUploaded, actor.Role, StaffChannel.Name, u.Filename, f.StoragePath))
	}

	if err := s.media.CreateStaffFiles(ctx, files, entries); err != nil {
		s.rollback(ctx, written)
		return nil, errors.Internal(err)
	}
	return files, nil
}

// ListStaff returns the staff-channel files. For the owning customer the
// list is empty until the order is COMPLETED, however many files exist.
func (s *Service) ListStaff(ctx context.Context, actor model.Actor, orderID uuid.UUID) ([]*model.StaffMediaFile, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewOrder(actor, order) {
		return nil, errors.Forbidden("you do not have access to this order")
	}
	if !authz.CanViewStaffMedia(actor, order) {
		return []*model.StaffMediaFile{}, nil
	}

	files, err := s.media.ListStaffFiles(ctx, orderID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return files, nil
}

// UpdateStaff edits staff-media metadata; the file itself is immutable.
func (s *Service) UpdateStaff(ctx context.Context, actor model.Actor, orderID, fileID uuid.UUID, req *model.UpdateStaffMediaRequest) (*model.StaffMediaFile, error) {
	if !authz.CanManageStaffMedia(actor) {
		return nil, errors.Forbidden("only staff can edit staff files")
	}
	if req.Empty() {
		return nil, errors.Validation("at least one field must be provided", nil)
	}

	file, err := s.media.GetStaffFile(ctx, fileID)
	if err != nil {
		return nil, s.mapRepoErr(err, "file")
	}
	if file.OrderID != orderID {
		return nil, errors.NotFound("file")
	}

	if req.Description != nil {
		file.Description = req.Description
	}
	if req.IsPublic != nil {
		file.IsPublic = *req.IsPublic
	}

	if err := s.media.UpdateStaffFile(ctx, file); err != nil {
		return nil, s.mapRepoErr(err, "file")
	}
	return file, nil
}

// DeleteStaff removes a staff file. Staff/admin only, any order status.
func (s *Service) DeleteStaff(ctx context.Context, actor model.Actor, orderID, fileID uuid.UUID) error {
	if !authz.CanManageStaffMedia(actor) {
		return errors.Forbidden("only staff can delete staff files")
	}
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}

	file, err := s.media.GetStaffFile(ctx, fileID)
	if err != nil {
		return s.mapRepoErr(err, "file")
	}
	if file.OrderID != orderID {
		return errors.NotFound("file")
	}

	return s.deleteFile(ctx, order, actor, StaffChannel.Name, file.OriginalFilename, file.StoragePath, func(entry *model.OrderHistoryEntry) error {
		return s.media.DeleteStaffFile(ctx, fileID, entry)
	})
}

// deleteFile removes the blob, then the metadata row plus its history entry.
// A blob-store failure aborts the whole operation so metadata never points
// at a missing blob and operators see the inconsistency immediately.
func (s *Service) deleteFile(ctx context.Context, order *model.Order, actor model.Actor,
	channel, filename, storagePath string, deleteRow func(*model.OrderHistoryEntry) error) error {
	if err := s.store.Delete(ctx, storagePath); err != nil {
		return errors.Internal(fmt.Errorf("blob deletion failed for %s, metadata retained: %w", storagePath, err))
	}

	entry := model.NewMediaHistory(order.ID, order.Status,
		model.HistoryActionMediaDeleted, actor.Role, channel, filename, storagePath)
	if err := deleteRow(entry); err != nil {
		return s.mapRepoErr(err, "file")
	}
	return nil
}

func (s *Service) newFileBase(orderID, uploaderID uuid.UUID, channel string, u Upload) model.MediaFileBase {
	id := uuid.New()
	storageName := id.String() + filepath.Ext(u.Filename)
	now := time.Now()
	return model.MediaFileBase{
		Base:             model.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		OrderID:          orderID,
		UploaderID:       uploaderID,
		StorageFilename:  storageName,
		OriginalFilename: u.Filename,
		MimeType:         u.ContentType,
		SizeBytes:        u.Size,
		FileKind:         model.KindForMIME(u.ContentType),
		StoragePath:      fmt.Sprintf("orders/%s/%s/%s", orderID, channel, storageName),
	}
}

// rollback is the compensating delete for blobs written before a batch
// failed. Failures here only leave orphans, so they are logged and the
// original error still wins.
func (s *Service) rollback(ctx context.Context, written []stored) {
	for _, w := range written {
		if err := s.store.Delete(ctx, w.path); err != nil {
			s.logger.Error(err, "failed to roll back stored blob", "path", w.path)
		}
	}
}

func requireStatus(current model.OrderStatus, allowed []model.OrderStatus, msg string) error {
	for _, s := range allowed {
		if current == s {
			return nil
		}
	}
	allowedStrs := make([]string, len(allowed))
	for i, s := range allowed {
		allowedStrs[i] = string(s)
	}
	return errors.BusinessRule(
		fmt.Sprintf("%s while order is %s", msg, current),
		map[string]interface{}{
			"current_status":   string(current),
			"allowed_statuses": allowedStrs,
		})
}

func (s *Service) getOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err, "order")
	}
	return order, nil
}

func (s *Service) mapRepoErr(err error, resource string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(resource)
	}
	return errors.Internal(err)
}
