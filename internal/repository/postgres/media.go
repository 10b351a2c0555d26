package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
)

type mediaRepository struct {
	BaseRepository
}

func NewMediaRepository(base BaseRepository) repository.MediaRepository {
	return &mediaRepository{base}
}

func (r *mediaRepository) CreateCustomerFiles(ctx context.Context, files []*model.CustomerMediaFile, entries []*model.OrderHistoryEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO customer_media_files (
				id, order_id, uploader_id, storage_filename, original_filename,
				mime_type, size_bytes, file_kind, storage_path, url,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		for _, f := range files {
			if _, err := tx.ExecContext(ctx, query,
				f.ID, f.OrderID, f.UploaderID, f.StorageFilename, f.OriginalFilename,
				f.MimeType, f.SizeBytes, f.FileKind, f.StoragePath, f.URL,
				f.CreatedAt, f.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to create customer media file: %w", err)
			}
		}
		for _, e := range entries {
			if err := insertHistory(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *mediaRepository) GetCustomerFile(ctx context.Context, id uuid.UUID) (*model.CustomerMediaFile, error) {
	var file model.CustomerMediaFile
	if err := r.db.GetContext(ctx, &file, `SELECT * FROM customer_media_files WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer media file: %w", err)
	}
	return &file, nil
}

func (r *mediaRepository) ListCustomerFiles(ctx context.Context, orderID uuid.UUID) ([]*model.CustomerMediaFile, error) {
	query := `SELECT * FROM customer_media_files WHERE order_id = $1 ORDER BY created_at DESC`

	var files []*model.CustomerMediaFile
	if err := r.db.SelectContext(ctx, &files, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list customer media files: %w", err)
	}
	return files, nil
}

func (r *mediaRepository) DeleteCustomerFile(ctx context.Context, id uuid.UUID, entry *model.OrderHistoryEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM customer_media_files WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete customer media file: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return insertHistory(ctx, tx, entry)
	})
}

func (r *mediaRepository) CreateStaffFiles(ctx context.Context, files []*model.StaffMediaFile, entries []*model.OrderHistoryEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO staff_media_files (
				id, order_id, uploader_id, storage_filename, original_filename,
				mime_type, size_bytes, file_kind, storage_path, url,
				description, is_public, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		for _, f := range files {
			if _, err := tx.ExecContext(ctx, query,
				f.ID, f.OrderID, f.UploaderID, f.StorageFilename, f.OriginalFilename,
				f.MimeType, f.SizeBytes, f.FileKind, f.StoragePath, f.URL,
				f.Description, f.IsPublic, f.CreatedAt, f.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to create staff media file: %w", err)
			}
		}
		for _, e := range entries {
			if err := insertHistory(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *mediaRepository) GetStaffFile(ctx context.Context, id uuid.UUID) (*model.StaffMediaFile, error) {
	var file model.StaffMediaFile
	if err := r.db.GetContext(ctx, &file, `SELECT * FROM staff_media_files WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff media file: %w", err)
	}
	return &file, nil
}

func (r *mediaRepository) ListStaffFiles(ctx context.Context, orderID uuid.UUID) ([]*model.StaffMediaFile, error) {
	query := `SELECT * FROM staff_media_files WHERE order_id = $1 ORDER BY created_at DESC`

	var files []*model.StaffMediaFile
	if err := r.db.SelectContext(ctx, &files, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list staff media files: %w", err)
	}
	return files, nil
}

// UpdateStaffFile persists metadata edits only; content columns never change
// after upload.
func (r *mediaRepository) UpdateStaffFile(ctx context.Context, file *model.StaffMediaFile) error {
	query := `
		UPDATE staff_media_files
		SET description = $1, is_public = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, file.Description, file.IsPublic, time.Now(), file.ID)
	if err != nil {
		return fmt.Errorf("failed to update staff media file: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mediaRepository) DeleteStaffFile(ctx context.Context, id uuid.UUID, entry *model.OrderHistoryEntry) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM staff_media_files WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete staff media file: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return insertHistory(ctx, tx, entry)
	})
}
