package controller

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sublet_hub_v1_202608/internal/api/dto"
	"sublet_hub_v1_202608/internal/middleware"
	"sublet_hub_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// WizardController 发布向导控制器
// 对外暴露的"命令"就是 Next/Prev/Jump/Submit，UI 只是薄调用方
type WizardController struct {
	wizardService  *service.WizardService
	listingService *service.ListingService
}

func NewWizardController(wizardService *service.WizardService, listingService *service.ListingService) *WizardController {
	return &WizardController{
		wizardService:  wizardService,
		listingService: listingService,
	}
}

// ==================== 会话 ====================

// StartCreate 开启新建向导
// @Summary 开启新建模式向导会话
// @Tags Wizard
// @Produce json
// @Success 201 {object} dto.WizardStateResponse
// @Router /api/wizard [post]
func (ctrl *WizardController) StartCreate(c *gin.Context) {
	state := ctrl.wizardService.StartCreate(middleware.CurrentUserID(c), middleware.CurrentEmail(c))

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// StartEdit 开启编辑向导
// @Summary 基于已有房源开启编辑模式会话
// @Tags Wizard
// @Param listing_id path int true "房源ID"
// @Success 201 {object} dto.WizardStateResponse
// @Router /api/wizard/edit/{listing_id} [post]
func (ctrl *WizardController) StartEdit(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	if err != nil || listingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	ctx := c.Request.Context()
	state, err := ctrl.wizardService.StartEdit(ctx, middleware.CurrentUserID(c), middleware.CurrentEmail(c), listingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// GetState 获取会话快照
// @Summary 获取向导会话当前状态
// @Tags Wizard
// @Param session_id path string true "会话ID"
// @Success 200 {object} dto.WizardStateResponse
// @Router /api/wizard/{session_id} [get]
func (ctrl *WizardController) GetState(c *gin.Context) {
	state, err := ctrl.wizardService.State(c.Param("session_id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// Abandon 放弃会话
// @Summary 放弃向导会话（在途上传不撤回）
// @Tags Wizard
// @Param session_id path string true "会话ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{session_id} [delete]
func (ctrl *WizardController) Abandon(c *gin.Context) {
	if err := ctrl.wizardService.Abandon(c.Param("session_id"), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "session abandoned",
	})
}

// ==================== 步骤导航 ====================

// Next 前进一步
// @Summary 校验当前步并前进
// @Tags Wizard
// @Param session_id path string true "会话ID"
// @Success 200 {object} dto.WizardStateResponse
// @Router /api/wizard/{session_id}/next [post]
func (ctrl *WizardController) Next(c *gin.Context) {
	state, err := ctrl.wizardService.Next(c.Param("session_id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	// 校验失败不是传输错误：HTTP 仍为 200，提示在 notice 里由前端展示并自动消失
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// Prev 后退一步
// @Summary 无条件后退一步（下限第一步）
// @Tags Wizard
// @Param session_id path string true "会话ID"
// @Success 200 {object} dto.WizardStateResponse
// @Router /api/wizard/{session_id}/prev [post]
func (ctrl *WizardController) Prev(c *gin.Context) {
	state, err := ctrl.wizardService.Prev(c.Param("session_id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// Jump 跳到指定步
// @Summary 跳步（仅编辑模式）
// @Tags Wizard
// @Accept json
// @Param session_id path string true "会话ID"
// @Param body body dto.JumpRequest true "目标步"
// @Success 200 {object} dto.WizardStateResponse
// @Router /api/wizard/{session_id}/jump [post]
func (ctrl *WizardController) Jump(c *gin.Context) {
	var req dto.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	state, err := ctrl.wizardService.JumpTo(c.Param("session_id"), middleware.CurrentUserID(c), req.Step)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// ==================== 草稿编辑 ====================

// SetField 写入单个草稿字段
// @Summary 写入单个草稿字段
// @Tags Wizard
// @Accept json
// @Param session_id path string true "会话ID"
// @Param body body dto.SetFieldRequest true "字段与值"
// @Success 200 {object} dto.WizardStateResponse
// @Router /api/wizard/{session_id}/field [patch]
func (ctrl *WizardController) SetField(c *gin.Context) {
	var req dto.SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	state, err := ctrl.wizardService.SetField(c.Param("session_id"), middleware.CurrentUserID(c), req.Key, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toWizardState(state),
	})
}

// UploadMedia 暂存媒体
// @Summary 暂存照片/视频（提交时才真正上传）
// @Tags Wizard
// @Accept multipart/form-data
// @Param session_id path string true "会话ID"
// @Param file formData file true "媒体文件"
// @Success 201 {object} dto.StageMediaResponse
// @Router /api/wizard/{session_id}/media [post]
func (ctrl *WizardController) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "缺少文件: " + err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "读取文件失败: " + err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "读取文件失败: " + err.Error(),
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	isVideo := strings.HasPrefix(contentType, "video/") || c.PostForm("is_video") == "true"

	token, err := ctrl.wizardService.StageMedia(
		c.Param("session_id"),
		middleware.CurrentUserID(c),
		fileHeader.Filename,
		contentType,
		data,
		isVideo,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    dto.StageMediaResponse{Token: token},
	})
}

// UploadMediaFromURL 按链接暂存媒体
// @Summary 按链接拉取远端文件并暂存
// @Tags Wizard
// @Accept json
// @Param session_id path string true "会话ID"
// @Param body body dto.StageMediaFromURLRequest true "媒体链接"
// @Success 201 {object} dto.StageMediaResponse
// @Router /api/wizard/{session_id}/media/url [post]
func (ctrl *WizardController) UploadMediaFromURL(c *gin.Context) {
	var req dto.StageMediaFromURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	token, err := ctrl.wizardService.StageMediaFromURL(
		ctx,
		c.Param("session_id"),
		middleware.CurrentUserID(c),
		req.URL,
		req.IsVideo,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    dto.StageMediaResponse{Token: token},
	})
}

// RemoveMedia 按 Token 移除媒体（新上传或保留媒体）
// @Summary 移除草稿内媒体
// @Tags Wizard
// @Param session_id path string true "会话ID"
// @Param token path string true "媒体Token"
// @Success 200 {object} map[string]interface{}
// @Router /api/wizard/{session_id}/media/{token} [delete]
func (ctrl *WizardController) RemoveMedia(c *gin.Context) {
	err := ctrl.wizardService.RemoveMedia(c.Param("session_id"), middleware.CurrentUserID(c), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "media removed",
	})
}

// ==================== 提交 ====================

// Submit 提交向导
// @Summary 提交草稿（上传媒体并落库）
// @Tags Wizard
// @Param session_id path string true "会话ID"
// @Success 201 {object} dto.ListingInfo
// @Router /api/wizard/{session_id}/submit [post]
func (ctrl *WizardController) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := ctrl.listingService.Submit(ctx, c.Param("session_id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    toListingInfo(listing),
	})
}
