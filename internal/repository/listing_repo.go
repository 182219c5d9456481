package repository

import (
	"context"

	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// ListingRepository 房源仓储接口
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	// UpdateFields 按字段表更新，status / created_at / owner_id 不在调用方字段表内时保持不变
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	// Delete 物理删除，带属主校验；返回删除行数（0 = 不存在或非本人）
	Delete(ctx context.Context, id int64, ownerID int64) (int64, error)

	ListByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error)
	// ListModerationQueue 审核队列：pending 或遗留空状态，新到旧排序
	ListModerationQueue(ctx context.Context) ([]model.Listing, error)
	ListApproved(ctx context.Context, limit, offset int) ([]model.Listing, int64, error)
}

// ==================== 仓储实现 ====================

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建房源仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

func (r *listingRepo) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepo) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Listing{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepo) Delete(ctx context.Context, id int64, ownerID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Listing{})
	return result.RowsAffected, result.Error
}

func (r *listingRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	var listings []model.Listing
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (r *listingRepo) ListModerationQueue(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	err := r.db.WithContext(ctx).
		Where("status = ? OR status = ?", model.ListingStatusPending, model.ListingStatusLegacy).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (r *listingRepo) ListApproved(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	var listings []model.Listing
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Listing{}).Where("status = ?", model.ListingStatusApproved)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}
