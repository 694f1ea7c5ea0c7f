package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"codepair/internal/models"
)

// GormStore backs rooms with a relational database (Postgres in
// deployment, SQLite in tests).
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) Migrate() error {
	return s.DB.AutoMigrate(&models.Room{})
}

func (s *GormStore) Create(ctx context.Context, room *models.Room) error {
	return s.DB.WithContext(ctx).Create(room).Error
}

func (s *GormStore) Fetch(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *GormStore) ReplaceDocument(ctx context.Context, roomID, code string) error {
	result := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("code", code)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *GormStore) IncrementMembers(ctx context.Context, roomID string) (int, error) {
	return s.adjustMembers(ctx, roomID, gorm.Expr("active_users + 1"))
}

func (s *GormStore) DecrementMembers(ctx context.Context, roomID string) (int, error) {
	return s.adjustMembers(ctx, roomID,
		gorm.Expr("CASE WHEN active_users > 0 THEN active_users - 1 ELSE 0 END"))
}

func (s *GormStore) adjustMembers(ctx context.Context, roomID string, expr any) (int, error) {
	result := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		UpdateColumn("active_users", expr)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrRoomNotFound
	}
	var count int
	err := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Select("active_users").
		Scan(&count).Error
	return count, err
}
