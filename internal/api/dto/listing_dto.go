package dto

import "time"

// ==================== 响应 ====================

// ListingInfo 房源对外视图
type ListingInfo struct {
	ID         int64  `json:"id"`
	OwnerID    int64  `json:"owner_id"`
	Title      string `json:"title"`
	Address    string `json:"address"`
	UnitNumber string `json:"unit_number,omitempty"`

	SubleaseType string `json:"sublease_type"`
	Furnishing   string `json:"furnishing"`
	LeaseType    string `json:"lease_type"`

	TotalBedrooms     int `json:"total_bedrooms"`
	AvailableBedrooms int `json:"available_bedrooms"`
	TotalBathrooms    int `json:"total_bathrooms"`

	MoveInDate  string `json:"move_in_date"`
	MoveOutDate string `json:"move_out_date"`

	MonthlyRent float64 `json:"monthly_rent"`

	Media    []string `json:"media"`
	VideoURL string   `json:"video_url,omitempty"`

	// 空字符串 = 遗留记录（无显式审核状态）
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingListResponse 房源分页列表
type ListingListResponse struct {
	Items []ListingInfo `json:"items"`
	Total int64         `json:"total"`
}

// ==================== 审核 ====================

// QueueItemInfo 审核队列条目
// 遗留记录与新提交同队列处理，仅 label 区分
type QueueItemInfo struct {
	Listing ListingInfo `json:"listing"`
	Label   string      `json:"label"`
}
