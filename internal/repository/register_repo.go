package repository

import (
	"context"

	"github.com/JamLaMin/rsw-webapp/internal/model"

	"gorm.io/gorm"
)

type RegisterRepository interface {
	FindActiveByID(ctx context.Context, id uint) (*model.Register, error)
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) FindActiveByID(ctx context.Context, id uint) (*model.Register, error) {
	var reg model.Register
	err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&reg).Error
	return &reg, err
}
