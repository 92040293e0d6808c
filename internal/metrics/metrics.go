package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义：
// - http_requests_total：按路径与方法统计请求次数（附带状态码标签）
// - http_request_duration_seconds：按路径与方法统计请求耗时分布
// - registrations_created_total / assignments_created_total：核心业务写入量
// - dashboard_cache_total：总览缓存命中情况（hit/miss/bypass）
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP 请求计数（按路径/方法/状态）"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP 请求耗时（秒）", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	RegistrationsCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "registrations_created_total", Help: "创建报名总数"})
	MembersWaitlisted    = prometheus.NewCounter(prometheus.CounterOpts{Name: "members_waitlisted_total", Help: "因超出名额进入候补的成员数"})
	AssignmentsCreated   = prometheus.NewCounter(prometheus.CounterOpts{Name: "assignments_created_total", Help: "创建住宿分配总数"})
	DashboardCache       = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_cache_total", Help: "总览缓存查询计数（按结果）"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, RegistrationsCreated, MembersWaitlisted, AssignmentsCreated, DashboardCache)
}

// Handler 返回记录基础 HTTP 指标的中间件（QPS/耗时）。
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, fmt.Sprintf("%d", c.Writer.Status())).Inc()
	}
}

// Exposer 返回标准 Prometheus 暴露处理器。
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
