package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"planscope/internal/pkg/convert"
)

// Candidate 是从单个容器抽取出的一条原始计划记录。
// 解析不到的字段一律表示为 nil/空串，抽取过程本身不会失败。
type Candidate struct {
	Name    string
	HitRate *float64
	Trade   *float64
	Plan    string
	RawText string
}

// containerSelector 列出被视作一条记录容器的结构元素，
// 以及 class 中带 card/item/row 的任意元素。
const containerSelector = "li, article, section, div, tr, tbody, card, .card, .item, .row"

// nameSelector 按文档顺序取首个标题/强调/命名类元素作为记录名。
const nameSelector = "h1,h2,h3,h4,h5,strong,b,.name,.title"

var (
	hitRateMark = regexp.MustCompile(`(?i)hit\s*rate`)
	tradeMark   = regexp.MustCompile(`(?i)trade`)
	planMark    = regexp.MustCompile(`(?i)\bplan\b`)

	nameSplit = regexp.MustCompile(`\s{2,}|\n`)

	hitProbe = fieldProbe{
		mark:     hitRateMark,
		fromNode: regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`),
		fromRaw:  regexp.MustCompile(`(?i)hit\s*rate[^\d]*(\d{1,3}(?:\.\d+)?)%`),
	}
	tradeProbe = fieldProbe{
		mark:     tradeMark,
		fromNode: regexp.MustCompile(`(\d+[\d,]*)`),
		fromRaw:  regexp.MustCompile(`(?i)trade[^\d]*(\d+[\d,]*)`),
	}
	planProbe = fieldProbe{
		mark:     planMark,
		fromNode: regexp.MustCompile(`(?i)plan\s*[:\-]?\s*([^|\n\r]+)`),
		fromRaw:  regexp.MustCompile(`(?i)plan\s*[:\-]?\s*([^|\n\r]+)`),
	}
)

// Records 扫描渲染后的文档，定位提到 hit rate 的元素，向上取最近
// 的容器祖先并按节点身份去重，再逐容器抽出候选记录。
func Records(doc *goquery.Document) []Candidate {
	if doc == nil {
		return nil
	}
	seen := make(map[*html.Node]bool)
	var containers []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if !hitRateMark.MatchString(s.Text()) {
			return
		}
		c := s.Closest(containerSelector)
		if c.Length() == 0 {
			return
		}
		node := c.Get(0)
		if seen[node] {
			return
		}
		seen[node] = true
		containers = append(containers, c)
	})
	out := make([]Candidate, 0, len(containers))
	for _, c := range containers {
		out = append(out, fromContainer(c))
	}
	return out
}

func fromContainer(c *goquery.Selection) Candidate {
	raw := collapseSpace(innerText(c))
	cand := Candidate{RawText: raw, Name: extractName(c, raw)}
	if tok := hitProbe.lookup(c, raw); tok != "" {
		if v, ok := convert.ParseToken(tok); ok {
			cand.HitRate = &v
		}
	}
	if tok := tradeProbe.lookup(c, raw); tok != "" {
		if v, ok := convert.ParseToken(tok); ok {
			cand.Trade = &v
		}
	}
	cand.Plan = strings.TrimSpace(planProbe.lookup(c, raw))
	return cand
}

// extractName 优先取标题类子元素文本，缺失时回落到 rawText 的
// 首个分段。两条路径都可能给出空串，空名不是错误。
func extractName(c *goquery.Selection, rawText string) string {
	if title := c.Find(nameSelector).First(); title.Length() > 0 {
		return strings.TrimSpace(collapseSpace(innerText(title)))
	}
	for _, part := range nameSplit.Split(rawText, -1) {
		if part = strings.TrimSpace(part); part != "" {
			return part
		}
	}
	return ""
}
