package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sublet_hub_v1_202608/internal/api/dto"
	"sublet_hub_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// ModerationController 审核控制器
// 队列是打开时的快照；approve/reject 失败只上报，由审核员手动重试
type ModerationController struct {
	moderationService *service.ModerationService
}

func NewModerationController(moderationService *service.ModerationService) *ModerationController {
	return &ModerationController{moderationService: moderationService}
}

// ==================== API 方法 ====================

// Queue 审核队列
// @Summary 获取审核队列（pending + 遗留无状态记录）
// @Tags Moderation
// @Success 200 {array} dto.QueueItemInfo
// @Router /api/moderation/queue [get]
func (ctrl *ModerationController) Queue(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := ctrl.moderationService.Queue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]dto.QueueItemInfo, 0, len(items))
	for i := range items {
		result = append(result, dto.QueueItemInfo{
			Listing: toListingInfo(&items[i].Listing),
			Label:   items[i].Label,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Approve 审核通过
// @Summary 审核通过指定房源
// @Tags Moderation
// @Param id path int true "房源ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/moderation/{id}/approve [post]
func (ctrl *ModerationController) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	ctx := c.Request.Context()
	if err := ctrl.moderationService.Approve(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "listing approved",
	})
}

// Reject 审核拒绝
// @Summary 审核拒绝指定房源
// @Tags Moderation
// @Param id path int true "房源ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/moderation/{id}/reject [post]
func (ctrl *ModerationController) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	ctx := c.Request.Context()
	if err := ctrl.moderationService.Reject(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "listing rejected",
	})
}
