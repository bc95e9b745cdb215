package db

import (
	"context"
	"errors"

	"fedauth/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

func (r *RevokedTokenRepository) Get(ctx context.Context, tokenHash string) (*domain.RevokedToken, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model RevokedTokenModel
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.RevokedToken{
		TokenHash: model.TokenHash,
		RevokedAt: model.RevokedAt,
		ExpiresAt: model.ExpiresAt,
	}, nil
}

func (r *RevokedTokenRepository) Insert(ctx context.Context, entry domain.RevokedToken) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := RevokedTokenModel{
		TokenHash: entry.TokenHash,
		RevokedAt: entry.RevokedAt,
		ExpiresAt: entry.ExpiresAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyRevoked
	}
	return nil
}

var _ domain.RevokedTokenRepository = (*RevokedTokenRepository)(nil)
