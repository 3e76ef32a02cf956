package decision

import (
	"math"
	"sort"

	"planscope/internal/rank"
)

// maxReasons 限定 reasons 中保留的最高权重票数。
const maxReasons = 5

// hitRateExponent 对命中率做超线性放大，使聚合比排行打分
// 更偏向高命中率的计划。
const hitRateExponent = 1.15

// Vote 是单条计划贡献的方向票。
type Vote struct {
	Side   Side    `json:"side"`
	Weight float64 `json:"weight"`
	Name   string  `json:"name"`
	Plan   string  `json:"plan"`
}

// Outcome 是聚合后的最终判定。Decision 为 nil 仅出现在无票
// 或总权重为零时，这是正常的无信号结果而非错误。
type Outcome struct {
	Decision   *Side   `json:"decision"`
	Confidence float64 `json:"confidence"`
	Reasons    []Vote  `json:"reasons"`
}

// VoteWeight 计算单票权重。缺失值按 0 处理，权重恒 >= 0。
func VoteWeight(hitRate, trade float64) float64 {
	if hitRate < 0 {
		hitRate = 0
	}
	if trade < 0 {
		trade = 0
	}
	return math.Pow(hitRate, hitRateExponent) * (1 + math.Log1p(trade))
}

// Decide 对记录逐条投票并按方向加权汇总。平票判 Big；
// 两侧权重和为零时返回无信号结果。
func Decide(items []rank.ScoredPlan) Outcome {
	votes := make([]Vote, 0, len(items))
	for _, it := range items {
		side, ok := Classify(it.Plan)
		if !ok {
			continue
		}
		votes = append(votes, Vote{
			Side:   side,
			Weight: VoteWeight(orZero(it.HitRate), orZero(it.Trade)),
			Name:   it.Name,
			Plan:   it.Plan,
		})
	}
	var bigScore, smallScore float64
	for _, v := range votes {
		if v.Side == Big {
			bigScore += v.Weight
		} else {
			smallScore += v.Weight
		}
	}
	total := bigScore + smallScore
	if total <= 0 {
		return Outcome{Confidence: 0, Reasons: []Vote{}}
	}
	side := Big
	winning := bigScore
	if smallScore > bigScore {
		side = Small
		winning = smallScore
	}
	sort.SliceStable(votes, func(i, j int) bool { return votes[i].Weight > votes[j].Weight })
	if len(votes) > maxReasons {
		votes = votes[:maxReasons]
	}
	return Outcome{Decision: &side, Confidence: winning / total, Reasons: votes}
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
