package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luoyang/bookmall/pkg/metrics"
)

// Metrics HTTP指标中间件
// 记录请求总数、耗时分布、处理中请求数
// path用路由模板(/api/v1/books/:id)而不是实际URL,避免高基数标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()

		c.Next()

		metrics.HTTPRequestsInProgress.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unknown" // 未匹配路由(404)
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.HTTPRequestDuration.With(map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}).Observe(time.Since(start).Seconds())
	}
}
