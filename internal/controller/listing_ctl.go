package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sublet_hub_v1_202608/internal/api/dto"
	"sublet_hub_v1_202608/internal/middleware"
	"sublet_hub_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// ListingController 房源查询/删除控制器
type ListingController struct {
	listingService *service.ListingService
}

func NewListingController(listingService *service.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// ==================== API 方法 ====================

// ListApproved 公开房源列表
// @Summary 获取已审核通过的房源（公开）
// @Tags Listing
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} dto.ListingListResponse
// @Router /api/listings [get]
func (ctrl *ListingController) ListApproved(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ctx := c.Request.Context()
	listings, total, err := ctrl.listingService.ListApproved(ctx, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.ListingInfo, 0, len(listings))
	for i := range listings {
		items = append(items, toListingInfo(&listings[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    dto.ListingListResponse{Items: items, Total: total},
	})
}

// MyListings 我的房源
// @Summary 获取当前用户发布的房源
// @Tags Listing
// @Success 200 {object} dto.ListingListResponse
// @Router /api/listings/mine [get]
func (ctrl *ListingController) MyListings(c *gin.Context) {
	ctx := c.Request.Context()
	listings, err := ctrl.listingService.ListByOwner(ctx, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.ListingInfo, 0, len(listings))
	for i := range listings {
		items = append(items, toListingInfo(&listings[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    dto.ListingListResponse{Items: items, Total: int64(len(items))},
	})
}

// GetDetail 房源详情
// @Summary 获取房源详情
// @Tags Listing
// @Param id path int true "房源ID"
// @Success 200 {object} dto.ListingInfo
// @Router /api/listings/{id} [get]
func (ctrl *ListingController) GetDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	ctx := c.Request.Context()
	listing, err := ctrl.listingService.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    toListingInfo(listing),
	})
}

// Delete 房主删除房源
// @Summary 删除自己的房源（物理删除）
// @Tags Listing
// @Param id path int true "房源ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/listings/{id} [delete]
func (ctrl *ListingController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的房源ID",
		})
		return
	}

	ctx := c.Request.Context()
	if err := ctrl.listingService.Delete(ctx, id, middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "listing deleted",
	})
}
