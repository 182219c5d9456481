package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/repository"
)

// ==================== 测试辅助函数 ====================

func newModerationTest(t *testing.T) (*ModerationService, *gorm.DB) {
	db := setupServiceTestDB(t)
	svc := NewModerationService(repository.NewListingRepository(db))
	return svc, db
}

// ==================== 队列测试 ====================

func TestModerationService_Queue(t *testing.T) {
	svc, db := newModerationTest(t)
	ctx := context.Background()

	pending := seedListing(t, db, 1, model.ListingStatusPending)
	legacy := seedListing(t, db, 2, model.ListingStatusLegacy)
	seedListing(t, db, 3, model.ListingStatusApproved)
	seedListing(t, db, 4, model.ListingStatusRejected)

	items, err := svc.Queue(ctx)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}

	// 队列 = pending + 遗留空状态，终态不进队列
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	labels := map[int64]string{}
	for _, item := range items {
		labels[item.Listing.ID] = item.Label
	}
	if labels[pending.ID] != QueueLabelNew {
		t.Errorf("pending 标签 = %q, want %q", labels[pending.ID], QueueLabelNew)
	}
	if labels[legacy.ID] != QueueLabelLegacy {
		t.Errorf("遗留记录标签 = %q, want %q", labels[legacy.ID], QueueLabelLegacy)
	}
}

func TestModerationService_Queue_Empty(t *testing.T) {
	svc, _ := newModerationTest(t)

	items, err := svc.Queue(context.Background())
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

// ==================== 审核动作测试 ====================

func TestModerationService_Approve(t *testing.T) {
	svc, db := newModerationTest(t)
	ctx := context.Background()

	listing := seedListing(t, db, 1, model.ListingStatusPending)

	if err := svc.Approve(ctx, listing.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	var updated model.Listing
	db.First(&updated, listing.ID)
	if updated.Status != model.ListingStatusApproved {
		t.Errorf("Status = %s, want approved", updated.Status)
	}

	// 通过后离开队列
	items, _ := svc.Queue(ctx)
	if len(items) != 0 {
		t.Errorf("审核后队列应为空, len = %d", len(items))
	}
}

func TestModerationService_ApproveIdempotent(t *testing.T) {
	svc, db := newModerationTest(t)
	ctx := context.Background()

	listing := seedListing(t, db, 1, model.ListingStatusPending)

	if err := svc.Approve(ctx, listing.ID); err != nil {
		t.Fatalf("第一次 Approve() error = %v", err)
	}
	// 重复审批无条件重写，不报错
	if err := svc.Approve(ctx, listing.ID); err != nil {
		t.Fatalf("重复 Approve() error = %v", err)
	}

	var updated model.Listing
	db.First(&updated, listing.ID)
	if updated.Status != model.ListingStatusApproved {
		t.Errorf("Status = %s, want approved", updated.Status)
	}
}

func TestModerationService_Reject(t *testing.T) {
	svc, db := newModerationTest(t)
	ctx := context.Background()

	listing := seedListing(t, db, 1, model.ListingStatusPending)

	if err := svc.Reject(ctx, listing.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	var updated model.Listing
	db.First(&updated, listing.ID)
	if updated.Status != model.ListingStatusRejected {
		t.Errorf("Status = %s, want rejected", updated.Status)
	}
}

func TestModerationService_RejectThenApprove(t *testing.T) {
	svc, db := newModerationTest(t)
	ctx := context.Background()

	listing := seedListing(t, db, 1, model.ListingStatusPending)

	// 误拒后改判，状态无条件重写
	if err := svc.Reject(ctx, listing.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if err := svc.Approve(ctx, listing.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	var updated model.Listing
	db.First(&updated, listing.ID)
	if updated.Status != model.ListingStatusApproved {
		t.Errorf("Status = %s, want approved", updated.Status)
	}
}

func TestModerationService_LegacyListingActionable(t *testing.T) {
	svc, db := newModerationTest(t)
	ctx := context.Background()

	legacy := seedListing(t, db, 1, model.ListingStatusLegacy)

	if err := svc.Approve(ctx, legacy.ID); err != nil {
		t.Fatalf("遗留记录应可审核: %v", err)
	}

	var updated model.Listing
	db.First(&updated, legacy.ID)
	if updated.Status != model.ListingStatusApproved {
		t.Errorf("Status = %s, want approved", updated.Status)
	}
}

func TestModerationService_Approve_NotFound(t *testing.T) {
	svc, _ := newModerationTest(t)

	// 审核期间房主删除了房源
	err := svc.Approve(context.Background(), 99999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
