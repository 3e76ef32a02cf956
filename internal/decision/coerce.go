package decision

import (
	"strings"

	"github.com/tidwall/gjson"

	"planscope/internal/pkg/convert"
	"planscope/internal/rank"
)

// CoerceItems 宽松解析外部提交的排行榜 JSON。接受顶层数组或
// {"items": [...]} 包装；字段缺失、类型不符一律退化为零值，
// 整段无法解析时返回空列表，绝不报错。
func CoerceItems(body []byte) []rank.ScoredPlan {
	root := gjson.ParseBytes(body)
	list := root
	if root.IsObject() {
		list = root.Get("items")
	}
	if !list.IsArray() {
		return nil
	}
	var out []rank.ScoredPlan
	list.ForEach(func(_, item gjson.Result) bool {
		sp := rank.ScoredPlan{
			Name:  strings.TrimSpace(item.Get("name").String()),
			Plan:  strings.TrimSpace(item.Get("plan").String()),
			Score: item.Get("score").Float(),
		}
		if v := item.Get("hit_rate"); v.Exists() && v.Type != gjson.Null {
			if f := convert.ToFloat64(v.Value()); f != 0 {
				sp.HitRate = &f
			}
		}
		if v := item.Get("trade"); v.Exists() && v.Type != gjson.Null {
			if f := convert.ToFloat64(v.Value()); f != 0 {
				sp.Trade = &f
			}
		}
		out = append(out, sp)
		return true
	})
	return out
}
