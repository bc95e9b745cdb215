package db

import "time"

type RevokedTokenModel struct {
	TokenHash string    `gorm:"primaryKey;size:64"`
	RevokedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (RevokedTokenModel) TableName() string { return "revoked_tokens" }

type PeerModel struct {
	Domain       string `gorm:"primaryKey"`
	SharedSecret []byte `gorm:"type:bytea;not null"`
	KeyID        string
	Enabled      bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (PeerModel) TableName() string { return "federation_peers" }
