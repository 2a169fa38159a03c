package security

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/metrics"

	"go.uber.org/zap"
)

var (
	controlChars  = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	scriptBlock   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptOpenTag = regexp.MustCompile(`(?i)<script\b[^>]*>`)
	jsScheme      = regexp.MustCompile(`(?i)javascript\s*:`)
	vbScheme      = regexp.MustCompile(`(?i)vbscript\s*:`)
	dataScheme    = regexp.MustCompile(`(?i)data\s*:`)
	eventHandler  = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// htmlEntities 比 html.EscapeString 多转义反引号与等号
var htmlEntities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// leet 字母替换表，用于生成混淆变体的正则
var leet = map[rune]string{
	'a': "a4@",
	'b': "b8",
	'c': "c(k",
	'e': "e3",
	'g': "g9",
	'h': "h#",
	'i': "i1!|l",
	'k': "kc",
	'l': "l1|",
	'n': "n",
	'o': "o0",
	's': "s5$z",
	't': "t7+",
	'u': "uv*",
}

// defaultSlurTerms 固定屏蔽词表，匹配其 leet 变体后统一替换为定长掩码
var defaultSlurTerms = []string{"fuck", "bitch", "putangina", "gago"}

// SanitizerConfig 清洗配置
type SanitizerConfig struct {
	EscapeHTML bool
	SlurMask   string
}

// Sanitizer 内容清洗与审查
// Sanitize 永不失败：内部异常时原样返回输入
type Sanitizer struct {
	cfg   SanitizerConfig
	slurs []*regexp.Regexp

	mu    sync.RWMutex
	words map[string]*regexp.Regexp
}

// NewSanitizer 创建清洗器
func NewSanitizer(cfg SanitizerConfig) *Sanitizer {
	if cfg.SlurMask == "" {
		cfg.SlurMask = "*****"
	}
	s := &Sanitizer{
		cfg:   cfg,
		words: make(map[string]*regexp.Regexp),
	}
	for _, term := range defaultSlurTerms {
		s.slurs = append(s.slurs, regexp.MustCompile(leetPattern(term)))
	}
	return s
}

// leetPattern 将单词展开为容忍重复字母、leet 替换与分隔符的正则
// 必须从词首开始匹配，分隔符不含空白，避免跨词拼出屏蔽词
func leetPattern(term string) string {
	var b strings.Builder
	b.WriteString(`(?i)(^|[^\pL\pN])`)
	for i, r := range strings.ToLower(term) {
		if i > 0 {
			b.WriteString(`[._\-*]*`)
		}
		chars, ok := leet[r]
		if !ok {
			chars = string(r)
		}
		b.WriteString("[")
		b.WriteString(regexp.QuoteMeta(chars))
		b.WriteString("]+")
	}
	return b.String()
}

// Sanitize 完整清洗流程：剥离危险内容 -> 屏蔽词 -> 固定屏蔽表 -> HTML 转义
func (s *Sanitizer) Sanitize(text string, bannedWords []string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Warn("sanitizer failed, passing text through", zap.Any("panic", r))
			metrics.GetGlobalCollector().RecordSanitizerFailure()
			out = text
		}
	}()

	out = StripDangerous(text)
	out = s.CensorBannedWords(out, bannedWords)
	out = s.CensorSlurs(out)
	if s.cfg.EscapeHTML {
		out = EscapeHTML(out)
	}
	return strings.TrimSpace(out)
}

// StripDangerous 去除控制字符、script 块、危险协议与内联事件
func StripDangerous(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = scriptBlock.ReplaceAllString(text, "")
	// 未闭合的 <script> 同样去掉
	text = scriptOpenTag.ReplaceAllString(text, "")
	text = jsScheme.ReplaceAllString(text, "")
	text = vbScheme.ReplaceAllString(text, "")
	text = dataScheme.ReplaceAllString(text, "")
	text = eventHandler.ReplaceAllString(text, "")
	return text
}

// EscapeHTML HTML 实体转义
func EscapeHTML(text string) string {
	return htmlEntities.Replace(text)
}

// CensorBannedWords 大小写不敏感的字面量匹配，替换为等长星号
func (s *Sanitizer) CensorBannedWords(text string, words []string) string {
	censored := false
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		re := s.wordPattern(w)
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			censored = true
			return strings.Repeat("*", utf8.RuneCountInString(m))
		})
	}
	if censored {
		metrics.GetGlobalCollector().RecordCensored("banned_word")
	}
	return text
}

// CensorSlurs 固定屏蔽表，无论匹配长度都替换为定长掩码
func (s *Sanitizer) CensorSlurs(text string) string {
	censored := false
	// 保留词首前的边界字符
	repl := "${1}" + strings.ReplaceAll(s.cfg.SlurMask, "$", "$$")
	for _, re := range s.slurs {
		if re.MatchString(text) {
			censored = true
			text = re.ReplaceAllString(text, repl)
		}
	}
	if censored {
		metrics.GetGlobalCollector().RecordCensored("slur")
	}
	return text
}

func (s *Sanitizer) wordPattern(word string) *regexp.Regexp {
	key := strings.ToLower(word)

	s.mu.RLock()
	re, ok := s.words[key]
	s.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key))
	s.mu.Lock()
	s.words[key] = re
	s.mu.Unlock()
	return re
}
