package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sublet_hub_v1_202608/docs"
	"sublet_hub_v1_202608/internal/controller"
	"sublet_hub_v1_202608/internal/middleware"
	"sublet_hub_v1_202608/internal/model"
)

// Controllers 控制器集合
type Controllers struct {
	Auth       *controller.AuthController
	Wizard     *controller.WizardController
	Listing    *controller.ListingController
	Moderation *controller.ModerationController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Audit())

	// Swagger 文档
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// auth 鉴权组（无需登录）
		auth := api.Group("/auth")
		{
			auth.POST("/register", ctls.Auth.Register)
			auth.POST("/login", ctls.Auth.Login)
			auth.POST("/refresh", ctls.Auth.Refresh)
		}

		// listings 公开读
		api.GET("/listings", ctls.Listing.ListApproved)
		api.GET("/listings/:id", ctls.Listing.GetDetail)

		// 以下全部需要登录
		authed := api.Group("")
		authed.Use(middleware.JWTAuth())
		{
			// wizard 发布向导
			wizard := authed.Group("/wizard")
			{
				wizard.POST("", ctls.Wizard.StartCreate)
				wizard.POST("/edit/:listing_id", ctls.Wizard.StartEdit)
				wizard.GET("/:session_id", ctls.Wizard.GetState)
				wizard.DELETE("/:session_id", ctls.Wizard.Abandon)
				wizard.POST("/:session_id/next", ctls.Wizard.Next)
				wizard.POST("/:session_id/prev", ctls.Wizard.Prev)
				wizard.POST("/:session_id/jump", ctls.Wizard.Jump)
				wizard.PATCH("/:session_id/field", ctls.Wizard.SetField)
				wizard.POST("/:session_id/media", ctls.Wizard.UploadMedia)
				wizard.POST("/:session_id/media/url", ctls.Wizard.UploadMediaFromURL)
				wizard.DELETE("/:session_id/media/:token", ctls.Wizard.RemoveMedia)
				wizard.POST("/:session_id/submit", ctls.Wizard.Submit)
			}

			// 我的房源
			authed.GET("/listings/mine", ctls.Listing.MyListings)
			authed.DELETE("/listings/:id", ctls.Listing.Delete)

			// moderation 审核组，只放行审核员
			moderation := authed.Group("/moderation")
			moderation.Use(middleware.RequireRole(model.RoleModerator))
			{
				moderation.GET("/queue", ctls.Moderation.Queue)
				moderation.POST("/:id/approve", ctls.Moderation.Approve)
				moderation.POST("/:id/reject", ctls.Moderation.Reject)
			}
		}
	}

	return r
}
