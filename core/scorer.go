package core

import "context"

// Scorer 是打分能力（ScoreFunction）的领域接口：给定用户与候选物品序列，
// 返回与候选一一对应的分数，分数越高表示越值得推荐。
//
// 设计原则：
//   - 定义在领域层（core），由 scorer 包实现
//   - 评估器只调用 Score，从不修改模型
//   - 实现必须是纯函数式的：同样的输入得到同样的输出，无内部状态变更
type Scorer interface {
	// Name 返回打分器名称（用于日志/报告）
	Name() string

	// Score 对候选物品打分，返回的分数切片与 itemIDs 一一对应。
	// 无法打分（用户缺行、物品越界等）时返回错误，不允许返回 NaN 兜底。
	Score(ctx context.Context, userID int64, itemIDs []int64) ([]float64, error)
}

// EmbeddingStore 是稠密向量表的领域接口：每个实体（用户或物品）一行定宽向量。
//
// 实现：
//   - store.MemoryEmbeddingStore 内存实现（测试/原型）
//   - store.RedisEmbeddingStore Redis 实现（生产）
//   - feast.EmbeddingSource Feast 在线特征仓库实现
type EmbeddingStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Dim 返回向量维度
	Dim() int

	// GetVector 读取单个实体的向量，缺行返回 ErrVectorNotFound
	GetVector(ctx context.Context, id int64) ([]float64, error)

	// BatchGetVectors 批量读取（减少网络往返），缺行的 ID 不出现在结果中
	BatchGetVectors(ctx context.Context, ids []int64) (map[int64][]float64, error)

	// Close 关闭连接/释放资源
	Close() error
}

// 向量表错误定义（使用统一的 DomainError）
var (
	// ErrVectorNotFound 表示实体在向量表中没有对应的行
	ErrVectorNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "embedding: vector not found")
)

// IsVectorNotFound 检查错误是否为向量缺行
func IsVectorNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
