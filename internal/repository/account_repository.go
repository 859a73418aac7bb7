// internal/repository/account_repository.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/models"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) table(ctx context.Context, kind models.ActorKind) (*gorm.DB, error) {
	name := kind.Table()
	if name == "" {
		return nil, fmt.Errorf("no account table for kind %q", kind)
	}
	return r.db.WithContext(ctx).Table(name), nil
}

func (r *accountRepository) Create(ctx context.Context, kind models.ActorKind, account *models.Account) error {
	q, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	return translate(q.Create(account).Error)
}

func (r *accountRepository) FindByID(ctx context.Context, kind models.ActorKind, id uint) (*models.Account, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}

	var account models.Account
	if err := q.Where("id = ?", id).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, kind models.ActorKind, username string) (*models.Account, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}

	var account models.Account
	if err := q.Where("username = ?", username).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, kind models.ActorKind) ([]models.Account, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}

	var accounts []models.Account
	if err := q.Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Delete(ctx context.Context, kind models.ActorKind, id uint) error {
	q, err := r.table(ctx, kind)
	if err != nil {
		return err
	}

	res := q.Where("id = ?", id).Delete(&models.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) Count(ctx context.Context, kind models.ActorKind) (int64, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return 0, err
	}

	var count int64
	err = q.Model(&models.Account{}).Count(&count).Error
	return count, err
}
