package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ==================== 媒体暂存 ====================

// StagedMedia 向导会话内暂存的未上传媒体
// Token 在入列时分配且不变，删除按 Token 定位，避免连续删除时的下标漂移
type StagedMedia struct {
	Token       string // 稳定标识，uuid
	Filename    string
	ContentType string
	Data        []byte
	IsVideo     bool
}

// RetainedMedia 已持久化媒体的引用（仅编辑模式填充）
// 只允许删除，不允许重排或直接新增
type RetainedMedia struct {
	Token   string
	URL     string
	IsVideo bool
}

// ==================== 草稿 ====================

// Draft 向导会话内的可变草稿
// 单会话独占写入，字段集封闭，未知字段一律拒绝
type Draft struct {
	SubleaseType string // 空 = 未选择
	Furnishing   string
	LeaseType    string

	TotalBedrooms     int // 0 = 未填写
	AvailableBedrooms int
	TotalBathrooms    int

	MoveInDate  time.Time // 零值 = 未填写
	MoveOutDate time.Time

	Address    string
	UnitNumber string // 可选

	MonthlyRent float64 // 0 = 未填写

	NewMedia      []StagedMedia
	RetainedMedia []RetainedMedia
}

// NewDraft 创建空草稿（新建模式）
func NewDraft() *Draft {
	return &Draft{}
}

// DraftFromListing 从已持久化房源填充草稿（编辑模式）
// RetainedMedia 由房源媒体列表播种，NewMedia 为空
func DraftFromListing(l *Listing) *Draft {
	d := &Draft{
		SubleaseType:      l.SubleaseType,
		Furnishing:        l.Furnishing,
		LeaseType:         l.LeaseType,
		TotalBedrooms:     l.TotalBedrooms,
		AvailableBedrooms: l.AvailableBedrooms,
		TotalBathrooms:    l.TotalBathrooms,
		MoveInDate:        l.MoveInDate,
		MoveOutDate:       l.MoveOutDate,
		Address:           l.Address,
		UnitNumber:        l.UnitNumber,
		MonthlyRent:       l.MonthlyRent,
	}

	for _, url := range l.Media {
		d.RetainedMedia = append(d.RetainedMedia, RetainedMedia{
			Token: uuid.New().String(),
			URL:   url,
		})
	}
	if l.VideoURL != "" {
		d.RetainedMedia = append(d.RetainedMedia, RetainedMedia{
			Token:   uuid.New().String(),
			URL:     l.VideoURL,
			IsVideo: true,
		})
	}
	return d
}

// ==================== 字段写入 ====================

// DraftDateLayout 日期字段使用的格式
const DraftDateLayout = "2006-01-02"

// ApplyField 写入单个字段，其余字段保持不变（无级联重置）
// value 为 JSON 解码后的原始值（string / float64）
func (d *Draft) ApplyField(key string, value interface{}) error {
	switch key {
	case "subleaseType":
		return setEnum(&d.SubleaseType, value, SubleaseTypePrivateBedroom, SubleaseTypeEntirePlace)
	case "furnishing":
		return setEnum(&d.Furnishing, value, FurnishingMoveInReady, FurnishingFurnished, FurnishingUnfurnished)
	case "leaseType":
		return setEnum(&d.LeaseType, value, LeaseTypeSublease, LeaseTypeNewLease)
	case "totalBedrooms":
		return setPositiveInt(&d.TotalBedrooms, value)
	case "availableBedrooms":
		return setPositiveInt(&d.AvailableBedrooms, value)
	case "totalBathrooms":
		return setPositiveInt(&d.TotalBathrooms, value)
	case "moveInDate":
		return setDate(&d.MoveInDate, value)
	case "moveOutDate":
		return setDate(&d.MoveOutDate, value)
	case "address":
		return setString(&d.Address, value)
	case "unitNumber":
		return setString(&d.UnitNumber, value)
	case "monthlyRent":
		return setPositiveFloat(&d.MonthlyRent, value)
	default:
		return fmt.Errorf("unknown draft field: %s", key)
	}
}

func setEnum(dst *string, value interface{}, allowed ...string) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("expected string value")
	}
	if s == "" {
		*dst = ""
		return nil
	}
	for _, a := range allowed {
		if s == a {
			*dst = s
			return nil
		}
	}
	return fmt.Errorf("invalid value: %s", s)
}

func setString(dst *string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("expected string value")
	}
	*dst = s
	return nil
}

func setPositiveInt(dst *int, value interface{}) error {
	var n int
	switch v := value.(type) {
	case float64:
		n = int(v)
	case string:
		// 前端可能传字符串数字
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid number: %s", v)
		}
		n = parsed
	default:
		return errors.New("expected numeric value")
	}
	if n < 0 {
		return errors.New("value must be positive")
	}
	*dst = n
	return nil
}

func setPositiveFloat(dst *float64, value interface{}) error {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %s", v)
		}
		f = parsed
	default:
		return errors.New("expected numeric value")
	}
	if f < 0 {
		return errors.New("value must be positive")
	}
	*dst = f
	return nil
}

func setDate(dst *time.Time, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("expected date string")
	}
	if s == "" {
		*dst = time.Time{}
		return nil
	}
	t, err := time.Parse(DraftDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date: %s", s)
	}
	*dst = t
	return nil
}

// ==================== 媒体操作 ====================

// ErrVideoAlreadyStaged 视频至多一个
var ErrVideoAlreadyStaged = errors.New("a video is already attached")

// StageMedia 暂存一个新上传，返回分配的稳定 Token
func (d *Draft) StageMedia(filename, contentType string, data []byte, isVideo bool) (string, error) {
	if isVideo && d.hasVideo() {
		return "", ErrVideoAlreadyStaged
	}
	m := StagedMedia{
		Token:       uuid.New().String(),
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		IsVideo:     isVideo,
	}
	d.NewMedia = append(d.NewMedia, m)
	return m.Token, nil
}

// RemoveNewMedia 按 Token 移除暂存媒体，其余条目顺序与标识不变
func (d *Draft) RemoveNewMedia(token string) bool {
	for i, m := range d.NewMedia {
		if m.Token == token {
			d.NewMedia = append(d.NewMedia[:i], d.NewMedia[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveRetainedMedia 按 Token 移除已持久化媒体引用
func (d *Draft) RemoveRetainedMedia(token string) bool {
	for i, m := range d.RetainedMedia {
		if m.Token == token {
			d.RetainedMedia = append(d.RetainedMedia[:i], d.RetainedMedia[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Draft) hasVideo() bool {
	for _, m := range d.NewMedia {
		if m.IsVideo {
			return true
		}
	}
	for _, m := range d.RetainedMedia {
		if m.IsVideo {
			return true
		}
	}
	return false
}

// PhotoCount 新上传与保留媒体中照片的总数
func (d *Draft) PhotoCount() int {
	count := 0
	for _, m := range d.NewMedia {
		if !m.IsVideo {
			count++
		}
	}
	for _, m := range d.RetainedMedia {
		if !m.IsVideo {
			count++
		}
	}
	return count
}
