package repository

import (
	"context"

	"gorm.io/gorm"
	"tableconfig-editor/internal/model"
)

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a revision store backed by the editor's own
// database.
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

// Append records one saved schema state.
func (r *revisionRepository) Append(ctx context.Context, revision *model.SchemaRevision) error {
	return r.db.WithContext(ctx).Create(revision).Error
}

// ListByTableKey returns the most recent revisions for a table, newest first.
func (r *revisionRepository) ListByTableKey(ctx context.Context, tableKey string, limit int) ([]*model.SchemaRevision, error) {
	var revisions []*model.SchemaRevision
	result := r.db.WithContext(ctx).
		Where("table_key = ?", tableKey).
		Order("created_at DESC").
		Limit(limit).
		Find(&revisions)
	if result.Error != nil {
		return nil, result.Error
	}
	return revisions, nil
}
