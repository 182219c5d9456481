package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sublet_hub_v1_202608/internal/api/dto"
	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/service"
)

// ==================== 视图转换 ====================

func toListingInfo(l *model.Listing) dto.ListingInfo {
	return dto.ListingInfo{
		ID:                l.ID,
		OwnerID:           l.OwnerID,
		Title:             l.Title,
		Address:           l.Address,
		UnitNumber:        l.UnitNumber,
		SubleaseType:      l.SubleaseType,
		Furnishing:        l.Furnishing,
		LeaseType:         l.LeaseType,
		TotalBedrooms:     l.TotalBedrooms,
		AvailableBedrooms: l.AvailableBedrooms,
		TotalBathrooms:    l.TotalBathrooms,
		MoveInDate:        formatDate(l.MoveInDate),
		MoveOutDate:       formatDate(l.MoveOutDate),
		MonthlyRent:       l.MonthlyRent,
		Media:             []string(l.Media),
		VideoURL:          l.VideoURL,
		Status:            l.Status,
		CreatedAt:         l.CreatedAt,
	}
}

func toDraftView(d *model.Draft) *dto.DraftView {
	view := &dto.DraftView{
		SubleaseType:      d.SubleaseType,
		Furnishing:        d.Furnishing,
		LeaseType:         d.LeaseType,
		TotalBedrooms:     d.TotalBedrooms,
		AvailableBedrooms: d.AvailableBedrooms,
		TotalBathrooms:    d.TotalBathrooms,
		MoveInDate:        formatDate(d.MoveInDate),
		MoveOutDate:       formatDate(d.MoveOutDate),
		Address:           d.Address,
		UnitNumber:        d.UnitNumber,
		MonthlyRent:       d.MonthlyRent,
		NewMedia:          []dto.MediaRef{},
		RetainedMedia:     []dto.MediaRef{},
	}

	for _, m := range d.NewMedia {
		view.NewMedia = append(view.NewMedia, dto.MediaRef{
			Token:    m.Token,
			Filename: m.Filename,
			IsVideo:  m.IsVideo,
		})
	}
	for _, m := range d.RetainedMedia {
		view.RetainedMedia = append(view.RetainedMedia, dto.MediaRef{
			Token:   m.Token,
			URL:     m.URL,
			IsVideo: m.IsVideo,
		})
	}
	return view
}

func toWizardState(st *service.WizardState) *dto.WizardStateResponse {
	return &dto.WizardStateResponse{
		SessionID:   st.SessionID,
		Mode:        st.Mode,
		ListingID:   st.ListingID,
		CurrentStep: st.CurrentStep,
		Notice:      st.Notice,
		Draft:       toDraftView(st.Draft),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DraftDateLayout)
}

// ==================== 错误映射 ====================

// respondError 把服务层错误分类映射成 HTTP 响应
// 所有 I/O 错误在这里转成用户可读文案，不允许击穿会话
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": verr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "listing not found",
		})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "wizard session not found or expired",
		})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "please sign in first",
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "not allowed",
		})
	case errors.Is(err, service.ErrJumpNotAllowed), errors.Is(err, service.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"code":    409,
			"message": err.Error(),
		})
	default:
		// UploadError / PersistenceError / 未知错误：整体中止，草稿保留，用户可重试
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
	}
}
