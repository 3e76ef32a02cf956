// Package rank 将候选记录转换为带分排行榜。
package rank

import (
	"math"
	"sort"
	"strings"

	"planscope/internal/extract"
)

// LeaderboardSize 是排行榜的固定容量。
const LeaderboardSize = 20

// ScoredPlan 是排行榜中的一条记录。HitRate/Trade 为 nil 表示
// 页面上未观察到对应数值（或观察值为零）；打分内部按 0 处理。
type ScoredPlan struct {
	Name    string   `json:"name"`
	HitRate *float64 `json:"hit_rate"`
	Trade   *float64 `json:"trade"`
	Plan    string   `json:"plan"`
	Score   float64  `json:"score"`
}

// Score 计算单条记录的排序分：命中率线性计入，交易量以
// 1+ln(1+n) 的次线性乘子计入。零交易时乘子恰为 1。
func Score(hitRate, trade float64) float64 {
	if trade < 0 {
		trade = 0
	}
	return hitRate * (1 + math.Log1p(trade))
}

// Top 对候选记录打分、排序并截取前 LeaderboardSize 条。
// 排序键依次为 score、hit_rate、trade（nil 视作 -1），
// 全部降序，相等时保持输入顺序。空输入返回空榜。
func Top(candidates []extract.Candidate) []ScoredPlan {
	out := make([]ScoredPlan, 0, len(candidates))
	for _, c := range candidates {
		hit := orZero(c.HitRate)
		trd := orZero(c.Trade)
		sp := ScoredPlan{
			Name:  strings.TrimSpace(c.Name),
			Plan:  strings.TrimSpace(c.Plan),
			Score: Score(hit, trd),
		}
		if hit != 0 {
			v := hit
			sp.HitRate = &v
		}
		if trd != 0 {
			v := trd
			sp.Trade = &v
		}
		out = append(out, sp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if ah, bh := orNeg(a.HitRate), orNeg(b.HitRate); ah != bh {
			return ah > bh
		}
		return orNeg(a.Trade) > orNeg(b.Trade)
	})
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func orNeg(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}
