// Package decision 将排行榜记录聚合为 Big/Small 方向判定。
package decision

import "strings"

// Side 表示方向。
type Side string

const (
	Big   Side = "Big"
	Small Side = "Small"
)

// rule 把小写后的计划文本映射到一个方向。
type rule struct {
	side  Side
	match func(string) bool
}

// ladder 按声明顺序求值，首条命中即生效，其后规则不再参与；
// 全部未命中则弃权。big/small 同时出现视为歧义，落入后续规则。
var ladder = []rule{
	{Big, func(t string) bool { return strings.Contains(t, "big") && !strings.Contains(t, "small") }},
	{Small, func(t string) bool { return strings.Contains(t, "small") && !strings.Contains(t, "big") }},
	{Big, func(t string) bool { return strings.ContainsAny(t, "6789") && !strings.ContainsAny(t, "012345") }},
	{Small, func(t string) bool { return strings.ContainsAny(t, "012345") && !strings.ContainsAny(t, "6789") }},
	{Big, func(t string) bool { return strings.Contains(t, "high") || strings.Contains(t, "up") }},
	{Small, func(t string) bool { return strings.Contains(t, "low") || strings.Contains(t, "down") }},
}

// Classify 将计划文本映射为方向票；无法归类时第二个返回值为
// false，表示该记录弃权。
func Classify(plan string) (Side, bool) {
	t := strings.ToLower(plan)
	for _, r := range ladder {
		if r.match(t) {
			return r.side, true
		}
	}
	return "", false
}
