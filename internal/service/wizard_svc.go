package service

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/repository"
	"sublet_hub_v1_202608/pkg/utils"
)

// ==================== 常量 ====================

const (
	WizardModeCreate = "create"
	WizardModeEdit   = "edit"

	// 九步向导
	StepSubleaseType = 1
	StepFurnishing   = 2
	StepLeaseType    = 3
	StepPropertyInfo = 4
	StepAvailability = 5
	StepLocation     = 6
	StepPricing      = 7
	StepMedia        = 8
	StepReview       = 9

	StepFirst = StepSubleaseType
	StepLast  = StepReview

	// 校验提示展示 3 秒后自动清除
	NoticeClearDelay = 3 * time.Second

	// 会话闲置超时，由定时任务兜底清扫
	SessionTTL = 2 * time.Hour
)

// ==================== 会话 ====================

// WizardSession 一次向导会话：草稿 + 当前步 + 瞬时提示
// 会话归属单个用户，所有操作串行化（mu）
type WizardSession struct {
	mu sync.Mutex

	ID        string
	UserID    int64
	UserEmail string

	Mode      string // create / edit
	ListingID int64  // 仅编辑模式

	Draft       *model.Draft
	CurrentStep int

	// 瞬时校验提示；noticeSeq 防止迟到的定时清除抹掉新提示
	Notice    string
	noticeSeq int

	// 提交在途标记，禁止重复提交
	submitting bool
}

// WizardState 会话对外快照
type WizardState struct {
	SessionID   string
	Mode        string
	ListingID   int64
	CurrentStep int
	Notice      string
	Draft       *model.Draft
}

func (sess *WizardSession) snapshot() *WizardState {
	return &WizardState{
		SessionID:   sess.ID,
		Mode:        sess.Mode,
		ListingID:   sess.ListingID,
		CurrentStep: sess.CurrentStep,
		Notice:      sess.Notice,
		Draft:       sess.Draft,
	}
}

// ==================== 步骤校验 ====================

// ValidateStep 步骤校验：纯函数，只读草稿，只在前进时调用
// 只校验"是否填写"，不校验日期先后、数值范围（与线上行为保持一致）
func ValidateStep(step int, d *model.Draft) *ValidationError {
	switch step {
	case StepSubleaseType:
		if d.SubleaseType == "" {
			return &ValidationError{Step: step, Message: "Please select a sublease type"}
		}
	case StepFurnishing:
		if d.Furnishing == "" {
			return &ValidationError{Step: step, Message: "Please select a furnishing option"}
		}
	case StepLeaseType:
		if d.LeaseType == "" {
			return &ValidationError{Step: step, Message: "Please select a lease type"}
		}
	case StepPropertyInfo:
		if d.TotalBedrooms == 0 || d.AvailableBedrooms == 0 || d.TotalBathrooms == 0 {
			return &ValidationError{Step: step, Message: "Please fill in all property details"}
		}
	case StepAvailability:
		if d.MoveInDate.IsZero() || d.MoveOutDate.IsZero() {
			return &ValidationError{Step: step, Message: "Please select both move-in and move-out dates"}
		}
	case StepLocation:
		if d.Address == "" {
			return &ValidationError{Step: step, Message: "Please enter an address"}
		}
	case StepPricing:
		if d.MonthlyRent <= 0 {
			return &ValidationError{Step: step, Message: "Please enter a valid monthly rent"}
		}
	case StepMedia:
		if d.PhotoCount() == 0 {
			return &ValidationError{Step: step, Message: "Please add at least one photo"}
		}
	case StepReview:
		// 终点步，始终放行
	}
	return nil
}

// ==================== 服务实现 ====================

// WizardService 向导控制器：持有会话，串联步骤状态机
type WizardService struct {
	sessions    *utils.TTLCache
	listingRepo repository.ListingRepository
}

// NewWizardService 创建向导服务
func NewWizardService(listingRepo repository.ListingRepository) *WizardService {
	return &WizardService{
		sessions:    utils.NewTTLCache(SessionTTL),
		listingRepo: listingRepo,
	}
}

// ==================== 会话生命周期 ====================

// StartCreate 开启新建模式会话，草稿为空，从第一步开始
func (s *WizardService) StartCreate(userID int64, email string) *WizardState {
	sess := &WizardSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		UserEmail:   email,
		Mode:        WizardModeCreate,
		Draft:       model.NewDraft(),
		CurrentStep: StepFirst,
	}
	s.sessions.Set(sess.ID, sess)
	return sess.snapshot()
}

// StartEdit 开启编辑模式会话：草稿由已持久化房源填充
// 目标不存在时显式报 ErrNotFound，绝不静默给空草稿
func (s *WizardService) StartEdit(ctx context.Context, userID int64, email string, listingID int64) (*WizardState, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "load listing", Err: err}
	}
	if listing.OwnerID != userID {
		return nil, ErrForbidden
	}

	sess := &WizardSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		UserEmail:   email,
		Mode:        WizardModeEdit,
		ListingID:   listingID,
		Draft:       model.DraftFromListing(listing),
		CurrentStep: StepFirst,
	}
	s.sessions.Set(sess.ID, sess)
	return sess.snapshot(), nil
}

// GetSession 取会话并校验归属；每次访问刷新 TTL
func (s *WizardService) GetSession(sessionID string, userID int64) (*WizardSession, error) {
	val, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess := val.(*WizardSession)
	if sess.UserID != userID {
		return nil, ErrForbidden
	}
	s.sessions.Touch(sessionID)
	return sess, nil
}

// State 取会话当前快照
func (s *WizardService) State(sessionID string, userID int64) (*WizardState, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Abandon 放弃会话（用户离开）；在途上传不撤回
func (s *WizardService) Abandon(sessionID string, userID int64) error {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return err
	}
	s.sessions.Delete(sess.ID)
	return nil
}

// SweepSessions 清扫过期会话（定时任务调用）
func (s *WizardService) SweepSessions() int {
	return s.sessions.SweepExpired()
}

// ==================== 步骤导航 ====================

// Next 前进：先校验当前步，通过则 +1（终点步封顶）
// 失败时写入提示并安排 3 秒后自动清除，草稿与步号都不变
func (s *WizardService) Next(sessionID string, userID int64) (*WizardState, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if verr := ValidateStep(sess.CurrentStep, sess.Draft); verr != nil {
		s.setNotice(sess, verr.Message)
		return sess.snapshot(), nil
	}

	if sess.CurrentStep < StepLast {
		sess.CurrentStep++
	}
	return sess.snapshot(), nil
}

// Prev 后退：无条件 -1，下限为第一步，从不校验
func (s *WizardService) Prev(sessionID string, userID int64) (*WizardState, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.CurrentStep > StepFirst {
		sess.CurrentStep--
	}
	return sess.snapshot(), nil
}

// JumpTo 直接跳步：仅编辑模式可用，不做校验
// 新建模式下步骤不可独立点击，直接拒绝
func (s *WizardService) JumpTo(sessionID string, userID int64, step int) (*WizardState, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Mode != WizardModeEdit {
		return nil, ErrJumpNotAllowed
	}
	if step < StepFirst || step > StepLast {
		return nil, &ValidationError{Step: step, Message: "invalid step"}
	}

	sess.CurrentStep = step
	return sess.snapshot(), nil
}

// setNotice 写入瞬时提示并安排自动清除；调用方需持有 sess.mu
func (s *WizardService) setNotice(sess *WizardSession, message string) {
	sess.Notice = message
	sess.noticeSeq++
	seq := sess.noticeSeq

	time.AfterFunc(NoticeClearDelay, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		// 只有没有更新的提示时才清除
		if sess.noticeSeq == seq {
			sess.Notice = ""
		}
	})
}

// ==================== 草稿编辑 ====================

// SetField 写入单个草稿字段，不触碰其他字段
func (s *WizardService) SetField(sessionID string, userID int64, key string, value interface{}) (*WizardState, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Draft.ApplyField(key, value); err != nil {
		return nil, &ValidationError{Step: sess.CurrentStep, Message: err.Error()}
	}
	return sess.snapshot(), nil
}

// StageMedia 暂存一个新上传，返回媒体 Token
func (s *WizardService) StageMedia(sessionID string, userID int64, filename, contentType string, data []byte, isVideo bool) (string, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	token, err := sess.Draft.StageMedia(filename, contentType, data, isVideo)
	if err != nil {
		return "", &ValidationError{Step: sess.CurrentStep, Message: err.Error()}
	}
	return token, nil
}

// StageMediaFromURL 按链接拉取远端文件并暂存，返回媒体 Token
// 拉取失败按上传失败处理，草稿不变
func (s *WizardService) StageMediaFromURL(ctx context.Context, sessionID string, userID int64, sourceURL string, isVideo bool) (string, error) {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return "", err
	}

	data, contentType, err := downloadFile(ctx, sourceURL)
	if err != nil {
		return "", &UploadError{Filename: sourceURL, Err: err}
	}
	if strings.HasPrefix(contentType, "video/") {
		isVideo = true
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	token, err := sess.Draft.StageMedia(filenameFromURL(sourceURL), contentType, data, isVideo)
	if err != nil {
		return "", &ValidationError{Step: sess.CurrentStep, Message: err.Error()}
	}
	return token, nil
}

// filenameFromURL 从链接提取文件名，取不到时给占位名
func filenameFromURL(sourceURL string) string {
	if u, err := url.Parse(sourceURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return "remote-media"
}

// RemoveMedia 按 Token 移除媒体，新上传与保留媒体都在查找范围内
func (s *WizardService) RemoveMedia(sessionID string, userID int64, token string) error {
	sess, err := s.GetSession(sessionID, userID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Draft.RemoveNewMedia(token) {
		return nil
	}
	if sess.Draft.RemoveRetainedMedia(token) {
		return nil
	}
	return &ValidationError{Step: sess.CurrentStep, Message: "media not found"}
}

// ==================== 提交互斥 ====================

// beginSubmit 标记提交在途；已在途时报错（UI 同时置灰按钮，这里是兜底）
func (sess *WizardSession) beginSubmit() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.submitting {
		return ErrSubmitInFlight
	}
	if sess.CurrentStep != StepReview {
		return &ValidationError{Step: sess.CurrentStep, Message: "please complete all steps before submitting"}
	}
	sess.submitting = true
	return nil
}

// endSubmit 清除在途标记
func (sess *WizardSession) endSubmit() {
	sess.mu.Lock()
	sess.submitting = false
	sess.mu.Unlock()
}
