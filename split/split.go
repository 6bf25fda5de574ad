// Package split 从扁平的 (user_id, item_id, timestamp) 记录表构造
// 训练/测试 History。切分策略是调用方的策略决定，这里提供最常用的
// “按用户留出最近一段”实现。
package split

import (
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/evalkit/core"
)

// Record 是一条原始交互记录。
type Record struct {
	UserID    int64
	ItemID    int64
	Timestamp int64   // Unix 秒，时间越大越新
	Weight    float64 // 可选强度/评分
}

// LeaveLatestOut 按用户把最近的 testFraction 比例交互留出为测试集，
// 其余进训练集（例如 testFraction=0.2 即 “每用户最近 20%”）。
//
// 保证：
//   - 同一用户的训练集与测试集物品互不相交（同一物品新旧两次交互时，
//     测试侧丢弃该物品，保持不相交不变量）
//   - 留出数量向下取整：交互很少的用户可能全部进训练集，从而不出现在
//     测试集中
//   - 越界 ID 在构造时立即报错
func LeaveLatestOut(records []Record, noUsers, noItems int64, testFraction float64) (train, test *core.History, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, core.NewDomainError(core.ModuleSplit, core.ErrorCodeInvalidInput,
			fmt.Sprintf("split: testFraction must be in (0, 1), got %v", testFraction))
	}
	train, err = core.NewHistory(noUsers, noItems)
	if err != nil {
		return nil, nil, err
	}
	test, err = core.NewHistory(noUsers, noItems)
	if err != nil {
		return nil, nil, err
	}

	// 按用户分组
	byUser := make(map[int64][]Record)
	for _, r := range records {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	for userID, rs := range byUser {
		// 按时间升序，同一时刻按物品 ID 升序，保证切分可复现
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].Timestamp != rs[j].Timestamp {
				return rs[i].Timestamp < rs[j].Timestamp
			}
			return rs[i].ItemID < rs[j].ItemID
		})

		noTest := int(math.Floor(float64(len(rs)) * testFraction))
		cut := len(rs) - noTest

		for _, r := range rs[:cut] {
			if err := train.Add(userID, r.ItemID); err != nil {
				return nil, nil, err
			}
		}
		for _, r := range rs[cut:] {
			// 同一物品在训练侧出现过时丢弃，保持不相交
			if train.Contains(userID, r.ItemID) {
				continue
			}
			if err := test.Add(userID, r.ItemID); err != nil {
				return nil, nil, err
			}
		}
	}
	return train, test, nil
}
