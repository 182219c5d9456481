package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/repository"
)

// ==================== 队列条目 ====================

// 队列条目展示标签：遗留记录与新提交同队列处理，仅标签区分
const (
	QueueLabelNew    = "New Submission"
	QueueLabelLegacy = "Legacy"
)

// QueueItem 审核队列条目
type QueueItem struct {
	Listing model.Listing
	Label   string
}

// ==================== 服务实现 ====================

// ModerationService 审核服务
// 队列 = status 为 pending 或遗留空状态的房源；approve/reject 是仅有的两个状态迁移
type ModerationService struct {
	listingRepo repository.ListingRepository
}

// NewModerationService 创建审核服务
func NewModerationService(listingRepo repository.ListingRepository) *ModerationService {
	return &ModerationService{listingRepo: listingRepo}
}

// Queue 审核队列快照（打开时读取，不做实时订阅）
func (s *ModerationService) Queue(ctx context.Context) ([]QueueItem, error) {
	listings, err := s.listingRepo.ListModerationQueue(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load moderation queue", Err: err}
	}

	items := make([]QueueItem, 0, len(listings))
	for _, l := range listings {
		label := QueueLabelNew
		if l.IsLegacy() {
			label = QueueLabelLegacy
		}
		items = append(items, QueueItem{Listing: l, Label: label})
	}
	return items, nil
}

// Approve 审核通过
// 无条件重写 status，重复调用效果幂等；失败只上报，不自动重试
func (s *ModerationService) Approve(ctx context.Context, listingID int64) error {
	return s.setStatus(ctx, listingID, model.ListingStatusApproved)
}

// Reject 审核拒绝，幂等性同 Approve
func (s *ModerationService) Reject(ctx context.Context, listingID int64) error {
	return s.setStatus(ctx, listingID, model.ListingStatusRejected)
}

func (s *ModerationService) setStatus(ctx context.Context, listingID int64, status string) error {
	err := s.listingRepo.UpdateStatus(ctx, listingID, status)
	if err != nil {
		// 审核期间房主可能已删除该房源，这是已接受的竞态，按目标不存在上报
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "update status", Err: err}
	}
	return nil
}
