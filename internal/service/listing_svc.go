package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/repository"
)

// ==================== 外部服务依赖 ====================

// MediaCleaner 删除已持久化媒体的能力，由 StorageProvider 满足
type MediaCleaner interface {
	Delete(ctx context.Context, url string) error
}

// ==================== 服务实现 ====================

// ListingService 房源提交服务
// 把走完向导的草稿落成持久化房源记录：新建走 pending，编辑不触碰 status
type ListingService struct {
	listingRepo repository.ListingRepository
	media       *MediaService
	wizard      *WizardService
	cleaner     MediaCleaner
}

// NewListingService 创建房源提交服务
func NewListingService(
	listingRepo repository.ListingRepository,
	media *MediaService,
	wizard *WizardService,
	cleaner MediaCleaner,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		media:       media,
		wizard:      wizard,
		cleaner:     cleaner,
	}
}

// ==================== 提交 ====================

// Submit 提交向导会话
// 任一步上传/写库失败都整体中止并把错误报给调用方；草稿原样保留，用户可直接重试
// 成功后会话销毁
func (s *ListingService) Submit(ctx context.Context, sessionID string, userID int64) (*model.Listing, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	sess, err := s.wizard.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	if err := sess.beginSubmit(); err != nil {
		return nil, err
	}
	defer sess.endSubmit()

	// 1. 归并媒体：保留在前，新上传并发批量上传后追加
	reconciled, err := s.media.Reconcile(ctx, sess.Draft)
	if err != nil {
		return nil, err
	}

	// 2. 落库
	var listing *model.Listing
	if sess.Mode == WizardModeEdit {
		listing, err = s.updateListing(ctx, sess, reconciled)
	} else {
		listing, err = s.createListing(ctx, sess, reconciled)
	}
	if err != nil {
		return nil, err
	}

	// 3. 提交完成，会话销毁
	s.wizard.sessions.Delete(sess.ID)
	return listing, nil
}

// createListing 新建路径：始终以 pending 入库
func (s *ListingService) createListing(ctx context.Context, sess *WizardSession, media *ReconciledMedia) (*model.Listing, error) {
	d := sess.Draft
	listing := &model.Listing{
		OwnerID:           sess.UserID,
		OwnerEmail:        sess.UserEmail,
		Title:             model.DeriveTitle(d.SubleaseType, d.TotalBedrooms, d.TotalBathrooms, d.Address),
		Address:           d.Address,
		UnitNumber:        d.UnitNumber,
		SubleaseType:      d.SubleaseType,
		Furnishing:        d.Furnishing,
		LeaseType:         d.LeaseType,
		TotalBedrooms:     d.TotalBedrooms,
		AvailableBedrooms: d.AvailableBedrooms,
		TotalBathrooms:    d.TotalBathrooms,
		MoveInDate:        d.MoveInDate,
		MoveOutDate:       d.MoveOutDate,
		MonthlyRent:       d.MonthlyRent,
		Media:             datatypes.JSONSlice[string](media.Photos),
		VideoURL:          media.VideoURL,
		Status:            model.ListingStatusPending,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, &PersistenceError{Op: "create listing", Err: err}
	}
	return listing, nil
}

// updateListing 编辑路径：字段表里刻意不含 status / created_at / owner_id
// 已审核通过的房源编辑后保持 approved，不强制重审（沿用线上契约）
func (s *ListingService) updateListing(ctx context.Context, sess *WizardSession, media *ReconciledMedia) (*model.Listing, error) {
	d := sess.Draft
	fields := map[string]interface{}{
		"title":              model.DeriveTitle(d.SubleaseType, d.TotalBedrooms, d.TotalBathrooms, d.Address),
		"address":            d.Address,
		"unit_number":        d.UnitNumber,
		"sublease_type":      d.SubleaseType,
		"furnishing":         d.Furnishing,
		"lease_type":         d.LeaseType,
		"total_bedrooms":     d.TotalBedrooms,
		"available_bedrooms": d.AvailableBedrooms,
		"total_bathrooms":    d.TotalBathrooms,
		"move_in_date":       d.MoveInDate,
		"move_out_date":      d.MoveOutDate,
		"monthly_rent":       d.MonthlyRent,
		"media":              datatypes.JSONSlice[string](media.Photos),
		"video_url":          media.VideoURL,
	}

	if err := s.listingRepo.UpdateFields(ctx, sess.ListingID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "update listing", Err: err}
	}

	listing, err := s.listingRepo.GetByID(ctx, sess.ListingID)
	if err != nil {
		return nil, &PersistenceError{Op: "reload listing", Err: err}
	}
	return listing, nil
}

// ==================== 查询 / 删除 ====================

// GetByID 取单条房源
func (s *ListingService) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "load listing", Err: err}
	}
	return listing, nil
}

// ListByOwner 我的房源列表
func (s *ListingService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	listings, err := s.listingRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "list listings", Err: err}
	}
	return listings, nil
}

// ListApproved 公开房源列表（只含审核通过）
func (s *ListingService) ListApproved(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	listings, total, err := s.listingRepo.ListApproved(ctx, limit, offset)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list listings", Err: err}
	}
	return listings, total, nil
}

// Delete 房主删除：物理删除整条记录，媒体文件尽力清理
func (s *ListingService) Delete(ctx context.Context, id int64, ownerID int64) error {
	if ownerID <= 0 {
		return ErrUnauthenticated
	}

	// 先取媒体列表，删库后清文件
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "load listing", Err: err}
	}
	if listing.OwnerID != ownerID {
		return ErrForbidden
	}

	rows, err := s.listingRepo.Delete(ctx, id, ownerID)
	if err != nil {
		return &PersistenceError{Op: "delete listing", Err: err}
	}
	if rows == 0 {
		return ErrNotFound
	}

	// 媒体清理失败只记日志，不影响删除结果
	if s.cleaner != nil {
		for _, url := range listing.Media {
			if err := s.cleaner.Delete(ctx, url); err != nil {
				log.Printf("清理媒体失败 %s: %v", url, err)
			}
		}
		if listing.VideoURL != "" {
			if err := s.cleaner.Delete(ctx, listing.VideoURL); err != nil {
				log.Printf("清理视频失败 %s: %v", listing.VideoURL, err)
			}
		}
	}
	return nil
}
