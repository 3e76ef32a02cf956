package planshttp

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"planscope/internal/decision"
	"planscope/internal/plans"
)

// maxDecideBody 限制 POST /api/result 请求体大小。
const maxDecideBody = 1 << 20

// PlanSource 由扫描服务实现，供路由查询。
type PlanSource interface {
	Scan(ctx context.Context) (plans.Leaderboard, error)
	Result(ctx context.Context) (decision.Outcome, error)
}

// Router 暴露排行榜与判定查询接口。
type Router struct {
	plans PlanSource
}

// NewRouter 构造 plans HTTP router。
func NewRouter(src PlanSource) *Router {
	return &Router{plans: src}
}

// Register 将路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/plans", r.handlePlans)
	group.GET("/result", r.handleResult)
	group.POST("/result", r.handleResultFor)
}

func (r *Router) handlePlans(c *gin.Context) {
	lb, err := r.plans.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lb)
}

func (r *Router) handleResult(c *gin.Context) {
	out, err := r.plans.Result(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

// handleResultFor 对调用方自带的排行榜记录做判定。请求体按
// 宽松规则解析，畸形输入退化为无信号结果而非 4xx。
func (r *Router) handleResultFor(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDecideBody))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	items := decision.CoerceItems(body)
	c.JSON(http.StatusOK, gin.H{"result": decision.Decide(items)})
}
