package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.EmbeddingStore 接口。
//
// 示例：
//   var users core.EmbeddingStore = NewMemoryEmbeddingStore(8)
//   var items core.EmbeddingStore = NewRedisEmbeddingStore(...)
