package content

import (
	"context"

	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"

	"go.uber.org/zap"
)

// WordSource 当前生效的屏蔽词
type WordSource interface {
	ActiveWords(ctx context.Context) ([]string, error)
}

// Cleaner 组合清洗器与屏蔽词来源，所有写入路径共用
type Cleaner struct {
	sanitizer *security.Sanitizer
	words     WordSource
}

// NewCleaner words 可为 nil，此时只做固定规则的清洗
func NewCleaner(sanitizer *security.Sanitizer, words WordSource) *Cleaner {
	return &Cleaner{sanitizer: sanitizer, words: words}
}

// Clean 清洗文本；屏蔽词读取失败时记录日志并继续
func (c *Cleaner) Clean(ctx context.Context, text string) string {
	if c == nil || c.sanitizer == nil {
		return text
	}
	return c.sanitizer.Sanitize(text, c.activeWords(ctx))
}

// CleanAll 同一批字段只读取一次屏蔽词
func (c *Cleaner) CleanAll(ctx context.Context, texts ...*string) {
	if c == nil || c.sanitizer == nil {
		return
	}
	words := c.activeWords(ctx)
	for _, t := range texts {
		if t != nil && *t != "" {
			*t = c.sanitizer.Sanitize(*t, words)
		}
	}
}

func (c *Cleaner) activeWords(ctx context.Context) []string {
	if c.words == nil {
		return nil
	}
	words, err := c.words.ActiveWords(ctx)
	if err != nil {
		logger.Log.Warn("load banned words failed, sanitizing without them", zap.Error(err))
		return nil
	}
	return words
}
