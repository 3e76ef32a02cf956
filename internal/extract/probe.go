package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// fieldProbe 描述一次两级查找：先按文档顺序定位容器内首个文本
// 命中 mark 的后代，对其文本套用 fromNode 取值；该路径落空时，
// 退回容器整体文本套用 fromRaw。返回首个捕获组，未命中为空串。
type fieldProbe struct {
	mark     *regexp.Regexp
	fromNode *regexp.Regexp
	fromRaw  *regexp.Regexp
}

func (p fieldProbe) lookup(container *goquery.Selection, rawText string) string {
	var fromNode string
	container.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := innerText(s)
		if !p.mark.MatchString(text) {
			return true
		}
		if m := p.fromNode.FindStringSubmatch(collapseSpace(text)); m != nil {
			fromNode = m[1]
		}
		return false
	})
	if fromNode != "" {
		return fromNode
	}
	if m := p.fromRaw.FindStringSubmatch(rawText); m != nil {
		return m[1]
	}
	return ""
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// 块级元素之间补换行，避免相邻单元格文本粘连。
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// innerText 近似浏览器的 innerText：跳过 script/style，块级
// 边界处补换行。调用方按需再做空白折叠。
func innerText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		writeNodeText(&b, node)
	}
	return b.String()
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
		block := blockTags[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNodeText(b, c)
		}
		if block {
			b.WriteByte('\n')
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNodeText(b, c)
		}
	}
}
