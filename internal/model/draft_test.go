package model

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

// ==================== ApplyField 测试 ====================

func TestDraft_ApplyField(t *testing.T) {
	d := NewDraft()

	// JSON 解码后的原始值：字符串与 float64
	cases := []struct {
		key   string
		value interface{}
	}{
		{"subleaseType", SubleaseTypeEntirePlace},
		{"furnishing", FurnishingUnfurnished},
		{"leaseType", LeaseTypeNewLease},
		{"totalBedrooms", float64(3)},
		{"availableBedrooms", "2"},
		{"totalBathrooms", float64(1)},
		{"moveInDate", "2026-09-01"},
		{"moveOutDate", "2027-05-31"},
		{"address", "123 University Ave"},
		{"unitNumber", "4B"},
		{"monthlyRent", "850.50"},
	}
	for _, c := range cases {
		if err := d.ApplyField(c.key, c.value); err != nil {
			t.Fatalf("ApplyField(%s) error = %v", c.key, err)
		}
	}

	if d.SubleaseType != SubleaseTypeEntirePlace {
		t.Errorf("SubleaseType = %s", d.SubleaseType)
	}
	if d.TotalBedrooms != 3 || d.AvailableBedrooms != 2 {
		t.Errorf("卧室数 = %d/%d", d.TotalBedrooms, d.AvailableBedrooms)
	}
	if d.MoveInDate != time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("MoveInDate = %v", d.MoveInDate)
	}
	if d.MonthlyRent != 850.50 {
		t.Errorf("MonthlyRent = %f", d.MonthlyRent)
	}
}

func TestDraft_ApplyField_Rejections(t *testing.T) {
	d := NewDraft()

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"未知字段", "color", "red"},
		{"非法枚举值", "subleaseType", "mansion"},
		{"枚举传数字", "furnishing", float64(1)},
		{"负数卧室", "totalBedrooms", float64(-1)},
		{"负数租金", "monthlyRent", float64(-100)},
		{"非法日期", "moveInDate", "09/01/2026"},
		{"日期传数字", "moveOutDate", float64(20260901)},
		{"非法数字字符串", "totalBathrooms", "two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.ApplyField(tt.key, tt.value); err == nil {
				t.Errorf("ApplyField(%s, %v) 应该报错", tt.key, tt.value)
			}
		})
	}
}

func TestDraft_ApplyField_ClearValues(t *testing.T) {
	d := NewDraft()
	d.SubleaseType = SubleaseTypeEntirePlace
	d.MoveInDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// 空串清空枚举与日期
	if err := d.ApplyField("subleaseType", ""); err != nil {
		t.Fatalf("ApplyField() error = %v", err)
	}
	if err := d.ApplyField("moveInDate", ""); err != nil {
		t.Fatalf("ApplyField() error = %v", err)
	}

	if d.SubleaseType != "" {
		t.Errorf("SubleaseType = %q, want 空", d.SubleaseType)
	}
	if !d.MoveInDate.IsZero() {
		t.Errorf("MoveInDate = %v, want 零值", d.MoveInDate)
	}
}

// ==================== 媒体暂存测试 ====================

func TestDraft_StageMedia_SingleVideo(t *testing.T) {
	d := NewDraft()

	if _, err := d.StageMedia("a.jpg", "image/jpeg", []byte("a"), false); err != nil {
		t.Fatalf("StageMedia() error = %v", err)
	}
	if _, err := d.StageMedia("tour.mp4", "video/mp4", []byte("v"), true); err != nil {
		t.Fatalf("StageMedia() error = %v", err)
	}

	// 第二个视频被拒
	if _, err := d.StageMedia("tour2.mp4", "video/mp4", []byte("v"), true); err != ErrVideoAlreadyStaged {
		t.Errorf("error = %v, want ErrVideoAlreadyStaged", err)
	}

	// 照片不受限制
	if _, err := d.StageMedia("b.jpg", "image/jpeg", []byte("b"), false); err != nil {
		t.Fatalf("StageMedia() error = %v", err)
	}

	if d.PhotoCount() != 2 {
		t.Errorf("PhotoCount() = %d, want 2", d.PhotoCount())
	}
}

func TestDraft_StageMedia_VideoSlotFreedByRemoval(t *testing.T) {
	d := NewDraft()

	token, err := d.StageMedia("tour.mp4", "video/mp4", []byte("v"), true)
	if err != nil {
		t.Fatalf("StageMedia() error = %v", err)
	}
	if !d.RemoveNewMedia(token) {
		t.Fatal("RemoveNewMedia() 应命中")
	}

	// 删除后可再上传视频
	if _, err := d.StageMedia("tour2.mp4", "video/mp4", []byte("v"), true); err != nil {
		t.Errorf("删除后再传视频应成功: %v", err)
	}
}

func TestDraft_RetainedVideoBlocksNewVideo(t *testing.T) {
	listing := &Listing{
		Media:    datatypes.JSONSlice[string]{"https://cdn.example.com/a.jpg"},
		VideoURL: "https://cdn.example.com/tour.mp4",
	}
	d := DraftFromListing(listing)

	if _, err := d.StageMedia("new.mp4", "video/mp4", []byte("v"), true); err != ErrVideoAlreadyStaged {
		t.Errorf("error = %v, want ErrVideoAlreadyStaged", err)
	}
}

func TestDraftFromListing(t *testing.T) {
	listing := &Listing{
		SubleaseType:      SubleaseTypeEntirePlace,
		Furnishing:        FurnishingFurnished,
		LeaseType:         LeaseTypeSublease,
		TotalBedrooms:     2,
		AvailableBedrooms: 1,
		TotalBathrooms:    2,
		Address:           "123 University Ave",
		UnitNumber:        "4B",
		MonthlyRent:       850,
		Media:             datatypes.JSONSlice[string]{"u1.jpg", "u2.jpg"},
		VideoURL:          "tour.mp4",
	}

	d := DraftFromListing(listing)

	if len(d.RetainedMedia) != 3 {
		t.Fatalf("len(RetainedMedia) = %d, want 3", len(d.RetainedMedia))
	}
	// 照片顺序保持，视频在末尾
	if d.RetainedMedia[0].URL != "u1.jpg" || d.RetainedMedia[1].URL != "u2.jpg" {
		t.Error("照片顺序不对")
	}
	if !d.RetainedMedia[2].IsVideo {
		t.Error("视频应标记 IsVideo")
	}
	// 每个条目都有独立 Token
	if d.RetainedMedia[0].Token == "" || d.RetainedMedia[0].Token == d.RetainedMedia[1].Token {
		t.Error("Token 应非空且各不相同")
	}
	if len(d.NewMedia) != 0 {
		t.Errorf("NewMedia 应为空, len = %d", len(d.NewMedia))
	}
}
