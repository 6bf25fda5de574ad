// Package conv 提供类型转换工具，用于简化 YAML/JSON 配置解析中的重复逻辑。
package conv

// ConfigGetInt64 从 map[string]any（如 YAML/JSON 解析结果）按 key 取 int64。
// YAML/JSON 常得到 int 或 float64，此处兼容并统一为 int64；取不到或类型不符时返回 defaultVal。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case float32:
		return int64(val)
	default:
		return defaultVal
	}
}
