package core

import (
	"fmt"
	"sort"
)

// Interaction 是一次用户-物品交互：(用户 ID, 物品 ID, 可选强度)。
// 用户/物品均使用稠密的零起始整数索引：[0, noUsers) / [0, noItems)。
// 索引在训练与评估之间保持稳定是调用方必须保证的不变量。
type Interaction struct {
	UserID int64
	ItemID int64
	Weight float64 // 可选强度/评分，0 表示未提供
}

// History 是 用户 -> 物品集合 的映射，用于承载训练期（TrainingHistory）
// 或留出期（TestHistory）的交互记录。
//
// 设计原则：
//   - 构造期校验：越界 ID 在 Add 时立即报错，而不是在使用时才暴露
//   - 构造完成后作为只读输入使用，评估过程不会修改它
//
// 注意：同一用户的训练集与测试集物品互不相交是调用方的契约，History 本身
// 不做跨实例检查（split 包构造的切分天然满足该契约）。
type History struct {
	noUsers int64
	noItems int64
	sets    map[int64]map[int64]struct{}
}

// NewHistory 创建一个空的 History。
// noUsers / noItems 为用户与物品的总量，必须大于 0。
func NewHistory(noUsers, noItems int64) (*History, error) {
	if noUsers <= 0 {
		return nil, NewDomainError(ModuleEval, ErrorCodeInvalidInput,
			fmt.Sprintf("history: noUsers must be > 0, got %d", noUsers))
	}
	if noItems <= 0 {
		return nil, NewDomainError(ModuleEval, ErrorCodeInvalidInput,
			fmt.Sprintf("history: noItems must be > 0, got %d", noItems))
	}
	return &History{
		noUsers: noUsers,
		noItems: noItems,
		sets:    make(map[int64]map[int64]struct{}),
	}, nil
}

// HistoryFromInteractions 从交互列表构造 History，重复交互会被去重。
func HistoryFromInteractions(noUsers, noItems int64, interactions []Interaction) (*History, error) {
	h, err := NewHistory(noUsers, noItems)
	if err != nil {
		return nil, err
	}
	for _, in := range interactions {
		if err := h.Add(in.UserID, in.ItemID); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Add 记录一次交互。越界 ID 立即返回 INVALID_INPUT。
func (h *History) Add(userID, itemID int64) error {
	if userID < 0 || userID >= h.noUsers {
		return NewDomainError(ModuleEval, ErrorCodeInvalidInput,
			fmt.Sprintf("history: user %d out of range [0, %d)", userID, h.noUsers))
	}
	if itemID < 0 || itemID >= h.noItems {
		return NewDomainError(ModuleEval, ErrorCodeInvalidInput,
			fmt.Sprintf("history: item %d out of range [0, %d)", itemID, h.noItems))
	}
	set, ok := h.sets[userID]
	if !ok {
		set = make(map[int64]struct{})
		h.sets[userID] = set
	}
	set[itemID] = struct{}{}
	return nil
}

// AddUser 登记一个没有任何交互的用户（空集合）。
// 主要用于测试集：MAP@k 约定空真值用户贡献 0 分，而 precision/recall 将其排除，
// 只有显式登记过的空集合用户才会参与这条约定。
func (h *History) AddUser(userID int64) error {
	if userID < 0 || userID >= h.noUsers {
		return NewDomainError(ModuleEval, ErrorCodeInvalidInput,
			fmt.Sprintf("history: user %d out of range [0, %d)", userID, h.noUsers))
	}
	if _, ok := h.sets[userID]; !ok {
		h.sets[userID] = make(map[int64]struct{})
	}
	return nil
}

// NoUsers 返回用户总量。
func (h *History) NoUsers() int64 { return h.noUsers }

// NoItems 返回物品总量。
func (h *History) NoItems() int64 { return h.noItems }

// Contains 判断用户是否与物品交互过。
func (h *History) Contains(userID, itemID int64) bool {
	set, ok := h.sets[userID]
	if !ok {
		return false
	}
	_, ok = set[itemID]
	return ok
}

// Count 返回用户交互过的物品数量；用户不存在时返回 0。
func (h *History) Count(userID int64) int {
	return len(h.sets[userID])
}

// Users 返回所有登记过的用户 ID，按升序排列。
// Go map 的遍历顺序不确定，升序遍历保证评估结果可复现。
func (h *History) Users() []int64 {
	users := make([]int64, 0, len(h.sets))
	for u := range h.sets {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// ItemsOf 返回用户交互过的物品 ID 列表（升序副本）。
func (h *History) ItemsOf(userID int64) []int64 {
	set, ok := h.sets[userID]
	if !ok {
		return nil
	}
	items := make([]int64, 0, len(set))
	for it := range set {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}
