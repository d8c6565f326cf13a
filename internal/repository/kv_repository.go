package repository

import (
	"context"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safelink-service/internal/model"
)

type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Find returns gorm.ErrRecordNotFound for a missing key.
func (r *KVRepository) Find(ctx context.Context, key string) ([]byte, error) {
	var entry model.KVEntry
	if err := r.db.WithContext(ctx).
		Model(&model.KVEntry{}).
		Where("key = ?", key).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (r *KVRepository) Upsert(ctx context.Context, key string, value []byte) error {
	entry := model.KVEntry{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.KVEntry{}).Error
}

// DeleteByPrefix removes every key in one namespace.
func (r *KVRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	return r.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Delete(&model.KVEntry{}).Error
}

func (r *KVRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&model.KVEntry{}).
		Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("key").
		Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
