package dto

// ==================== 请求 ====================

// SetFieldRequest 写入单个草稿字段
// Value 保持 JSON 原始类型（string / number），由草稿自己做类型/枚举校验
type SetFieldRequest struct {
	Key   string      `json:"key" binding:"required"`
	Value interface{} `json:"value"`
}

// JumpRequest 跳步请求（仅编辑模式）
type JumpRequest struct {
	Step int `json:"step" binding:"required"`
}

// StageMediaFromURLRequest 按链接暂存媒体
// is_video 可不传，服务端会按 Content-Type 识别视频
type StageMediaFromURLRequest struct {
	URL     string `json:"url" binding:"required,url"`
	IsVideo bool   `json:"is_video"`
}

// ==================== 响应 ====================

// MediaRef 草稿内媒体条目
// 新上传只回 Token 和文件名，保留媒体带已持久化 URL
type MediaRef struct {
	Token    string `json:"token"`
	Filename string `json:"filename,omitempty"`
	URL      string `json:"url,omitempty"`
	IsVideo  bool   `json:"is_video"`
}

// DraftView 草稿对外视图，日期格式 yyyy-mm-dd，未填为空串
type DraftView struct {
	SubleaseType      string  `json:"sublease_type"`
	Furnishing        string  `json:"furnishing"`
	LeaseType         string  `json:"lease_type"`
	TotalBedrooms     int     `json:"total_bedrooms"`
	AvailableBedrooms int     `json:"available_bedrooms"`
	TotalBathrooms    int     `json:"total_bathrooms"`
	MoveInDate        string  `json:"move_in_date"`
	MoveOutDate       string  `json:"move_out_date"`
	Address           string  `json:"address"`
	UnitNumber        string  `json:"unit_number"`
	MonthlyRent       float64 `json:"monthly_rent"`

	NewMedia      []MediaRef `json:"new_media"`
	RetainedMedia []MediaRef `json:"retained_media"`
}

// WizardStateResponse 向导会话快照
type WizardStateResponse struct {
	SessionID   string     `json:"session_id"`
	Mode        string     `json:"mode"`
	ListingID   int64      `json:"listing_id,omitempty"`
	CurrentStep int        `json:"current_step"`
	Notice      string     `json:"notice,omitempty"`
	Draft       *DraftView `json:"draft"`
}

// StageMediaResponse 媒体暂存结果
type StageMediaResponse struct {
	Token string `json:"token"`
}
