package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 请求审计 ====================

// Audit 请求审计中间件
// 记录谁在什么时候动了哪个接口；审核动作（approve/reject）排查纠纷时要靠这份日志
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 只审计写操作，读接口量大且无审计价值
		switch c.Request.Method {
		case "POST", "PUT", "PATCH", "DELETE":
			log.Printf("[audit] user=%d %s %s status=%d cost=%s",
				CurrentUserID(c),
				c.Request.Method,
				c.Request.URL.Path,
				c.Writer.Status(),
				time.Since(start).Round(time.Millisecond),
			)
		}
	}
}
