package model

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ==================== 状态常量 ====================

const (
	// 审核状态
	// 注意：历史数据没有 status 字段，入库后为空字符串，视为"待审核(遗留)"
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
	ListingStatusLegacy   = "" // 遗留记录，无显式状态

	// 转租类型
	SubleaseTypePrivateBedroom = "private-bedroom"
	SubleaseTypeEntirePlace    = "entire-place"

	// 家具状态
	FurnishingMoveInReady = "move-in-ready"
	FurnishingFurnished   = "furnished"
	FurnishingUnfurnished = "unfurnished"

	// 租约类型
	LeaseTypeSublease = "sublease"
	LeaseTypeNewLease = "new-lease"
)

// ==================== 数据库模型 ====================

// Listing 房源记录
// 由提交服务创建/更新，审核服务只允许改 status 字段
// 注意：没有 DeletedAt，房主删除是物理删除，不留软删除记录
type Listing struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"index"` // 创建后不再更新，更新语句不包含此列
	UpdatedAt time.Time `gorm:"index"`

	OwnerID    int64  `gorm:"index;not null;comment:发布人用户ID"`
	OwnerEmail string `gorm:"size:100;comment:发布人邮箱"`

	Title      string `gorm:"size:200;comment:派生标题"`
	Address    string `gorm:"size:255;not null;comment:地址"`
	UnitNumber string `gorm:"size:32;comment:单元号(可选)"`

	SubleaseType string `gorm:"size:32;comment:转租类型"`
	Furnishing   string `gorm:"size:32;comment:家具状态"`
	LeaseType    string `gorm:"size:32;comment:租约类型"`

	TotalBedrooms     int `gorm:"comment:总卧室数"`
	AvailableBedrooms int `gorm:"comment:可出租卧室数"`
	TotalBathrooms    int `gorm:"comment:卫生间数"`

	MoveInDate  time.Time `gorm:"comment:起租日期"`
	MoveOutDate time.Time `gorm:"comment:退租日期"`

	MonthlyRent float64 `gorm:"comment:月租金"`

	Media    datatypes.JSONSlice[string] `gorm:"comment:照片URL列表(有序)"`
	VideoURL string                      `gorm:"size:2048;comment:视频URL(至多一个)"`

	// 空字符串 = 遗留记录，进审核队列时与 pending 同等对待
	// 不设列默认值：新建路径显式写 pending，迁移时不能把遗留空状态回填掉
	Status string `gorm:"size:32;index;comment:审核状态"`
}

func (*Listing) TableName() string {
	return "listings"
}

// ==================== 辅助方法 ====================

// InModerationQueue 是否属于审核队列（pending 或遗留空状态）
func (l *Listing) InModerationQueue() bool {
	return l.Status == ListingStatusPending || l.Status == ListingStatusLegacy
}

// IsLegacy 是否为遗留记录（无显式审核状态）
func (l *Listing) IsLegacy() bool {
	return l.Status == ListingStatusLegacy
}

// IsTerminal 审核是否已出终态
func (l *Listing) IsTerminal() bool {
	return l.Status == ListingStatusApproved || l.Status == ListingStatusRejected
}

// DeriveTitle 根据房源字段派生展示标题
// 例: "2B2B Entire Place near 123 University Ave"
func DeriveTitle(subleaseType string, totalBedrooms, totalBathrooms int, address string) string {
	var kind string
	switch subleaseType {
	case SubleaseTypeEntirePlace:
		kind = "Entire Place"
	case SubleaseTypePrivateBedroom:
		kind = "Private Bedroom"
	default:
		kind = "Listing"
	}

	// 地址只取第一段，避免标题过长
	shortAddr := address
	if idx := strings.Index(address, ","); idx > 0 {
		shortAddr = address[:idx]
	}

	return fmt.Sprintf("%dB%dB %s near %s", totalBedrooms, totalBathrooms, kind, shortAddr)
}
