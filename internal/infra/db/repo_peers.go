package db

import (
	"context"
	"errors"

	"fedauth/internal/domain"

	"gorm.io/gorm"
)

type PeerRepository struct {
	db *gorm.DB
}

func NewPeerRepository(db *gorm.DB) *PeerRepository {
	return &PeerRepository{db: db}
}

func (r *PeerRepository) GetByDomain(ctx context.Context, peerDomain string) (*domain.PeerConfig, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model PeerModel
	err := r.db.WithContext(ctx).
		Where("domain = ?", peerDomain).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.PeerConfig{
		Domain:       model.Domain,
		SharedSecret: copyBytes(model.SharedSecret),
		KeyID:        model.KeyID,
		Enabled:      model.Enabled,
	}, nil
}

func copyBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

var _ domain.PeerStore = (*PeerRepository)(nil)
