package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/metrics"
	"freedom_wall/pkg/response"
	"freedom_wall/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 动作类别
const (
	ClassPost    = "post"
	ClassComment = "comment"
	ClassLike    = "like"
	ClassReport  = "report"
	ClassContact = "contact"
	ClassRead    = "read"
)

// 限流器自身故障时的重试提示
const limiterFailureRetryAfter = 60

// maxPeekBytes 读取请求体用于生成 key 的上限
const maxPeekBytes = 64 << 10

// KeyFunc 根据请求生成限流 key，body 为解析后的 JSON 请求体（可能为 nil）
type KeyFunc func(c *gin.Context, body map[string]interface{}) string

// RateLimit 限流中间件工厂
type RateLimit struct {
	limiter    security.RateLimiter
	authorizer security.Authorizer
}

// NewRateLimit authorizer 非空时携带有效管理员凭证的请求直接放行
func NewRateLimit(limiter security.RateLimiter, authorizer security.Authorizer) *RateLimit {
	return &RateLimit{limiter: limiter, authorizer: authorizer}
}

// Middleware 返回指定类别的限流中间件
func (rl *RateLimit) Middleware(class string, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.authorizer != nil {
			creds := AdminCredentials(c)
			if !creds.Empty() && rl.authorizer.Authorize(creds) == nil {
				c.Next()
				return
			}
		}

		k := key(c, peekJSONBody(c))
		d, err := rl.limiter.Allow(c.Request.Context(), class, k)
		if err != nil {
			logger.Log.Error("rate limiter unavailable",
				zap.String("class", class),
				zap.String("key", k),
				zap.Error(err),
			)
			metrics.GetGlobalCollector().RecordRateLimited(class)
			response.Fail(c, apperr.RateLimited("Rate limit check failed. Try again later.", limiterFailureRetryAfter))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", d.ResetAt.UTC().Format(time.RFC3339))

		if !d.Allowed {
			metrics.GetGlobalCollector().RecordRateLimited(class)
			c.Header("Retry-After", strconv.Itoa(d.RetryAfter))
			response.Fail(c, apperr.RateLimited(
				fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", d.RetryAfter),
				d.RetryAfter,
			))
			return
		}
		c.Next()
	}
}

// peekJSONBody 读取并还原请求体，非 JSON 时返回 nil
func peekJSONBody(c *gin.Context) map[string]interface{} {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
	if err != nil {
		return nil
	}
	// 拼回未读取的部分，保证后续 handler 读到完整请求体
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

func bodyString(body map[string]interface{}, field string) string {
	if body == nil {
		return ""
	}
	v, ok := body[field].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func nameOrAnonymous(body map[string]interface{}) string {
	if name := bodyString(body, "name"); name != "" {
		return name
	}
	return "anonymous"
}

// PostKey post:{name}:{ip}
func PostKey(c *gin.Context, body map[string]interface{}) string {
	return "post:" + nameOrAnonymous(body) + ":" + identity.ClientIP(c.Request)
}

// CommentKey comment:{name}:{ip}
func CommentKey(c *gin.Context, body map[string]interface{}) string {
	return "comment:" + nameOrAnonymous(body) + ":" + identity.ClientIP(c.Request)
}

// LikeKey like:{userId 或调用方标识}，点赞、表态与投票共用
func LikeKey(c *gin.Context, body map[string]interface{}) string {
	return "like:" + identity.Resolve(c, bodyString(body, "userId"))
}

// ReportKey report:{userId 或调用方标识}
func ReportKey(c *gin.Context, body map[string]interface{}) string {
	return "report:" + identity.Resolve(c, bodyString(body, "userId"))
}

// ContactKey contact:{email 或 ip}
func ContactKey(c *gin.Context, body map[string]interface{}) string {
	if email := strings.ToLower(bodyString(body, "email")); email != "" {
		return "contact:" + email
	}
	return "contact:" + identity.ClientIP(c.Request)
}

// ReadKey get:{ip}
func ReadKey(c *gin.Context, _ map[string]interface{}) string {
	return "get:" + identity.ClientIP(c.Request)
}
