package service

import (
	"sort"
	"time"
)

// CalculateStreaks 从答题时间历史推导连续学习天数，纯函数
//
// 同一天的多次答题只算一天。current 是以最近活跃日结尾的连续段长度，
// 且仅当最近活跃日是今天或昨天才有效，否则为 0（中断的连击不算当前连击）。
// longest 是整个历史中观察到的最长连续段。
//
// 连击不单独落库，始终由答题历史重新推导，避免存储值与派生值漂移。
// 成就评估和进度汇总都必须走这一个实现。
func CalculateStreaks(timestamps []time.Time, now time.Time) (current, longest int) {
	if len(timestamps) == 0 {
		return 0, 0
	}

	seen := make(map[int]bool, len(timestamps))
	days := make([]int, 0, len(timestamps))
	for _, t := range timestamps {
		k := dayIndex(t)
		if !seen[k] {
			seen[k] = true
			days = append(days, k)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))

	longest = 1
	run := 1
	firstRun := 1
	firstSegment := true
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
			firstSegment = false
		}
		if run > longest {
			longest = run
		}
		if firstSegment {
			firstRun = run
		}
	}

	today := dayIndex(now)
	if days[0] == today || days[0] == today-1 {
		current = firstRun
	}
	return current, longest
}

// dayIndex 把时间戳归一到自然日序号，跨日差值恰为 1 表示相邻两天
func dayIndex(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// startOfDay 返回 t 所在自然日的零点
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
