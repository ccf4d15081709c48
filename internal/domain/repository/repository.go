// Package repository 定义数据访问层接口
package repository

// ListOptions 列表查询参数
type ListOptions struct {
	Limit  int
	Offset int
	// Tool 非空时仅返回 tools_needed 中包含该工具的记录
	Tool string
}

// Normalize 将参数收敛到合法范围
func (o ListOptions) Normalize(defaultLimit, maxLimit int) ListOptions {
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	if o.Limit < 1 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
