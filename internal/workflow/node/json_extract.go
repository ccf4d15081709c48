package node

import (
	"strings"
)

// ExtractJSONObject 从模型输出中截取第一个 '{' 到最后一个 '}' 之间的内容。
// 模型可能在 JSON 前后附带说明文字或 ``` 代码块，这里只做截取，不做修复。
// 找不到对象边界时返回去除空白后的原文，由调用方的解码步骤报错。
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
