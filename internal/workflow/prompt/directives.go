package prompt

import (
	"strings"

	wfmodel "bizprompt-api/internal/workflow/model"
)

// directiveSeparator 指令各段之间以一个空行分隔
const directiveSeparator = "\n\n"

// Directives 按固定顺序 industry → budget → skill_level → ai_use 生成约束语句。
// 去除首尾空白后为空的字段视为未提供。
func Directives(f *wfmodel.IdeaFilters) []string {
	if f == nil {
		return nil
	}

	out := make([]string, 0, 4)
	if v := strings.TrimSpace(f.Industry); v != "" {
		out = append(out, "Focus on the "+v+" industry.")
	}
	if v := strings.TrimSpace(f.Budget); v != "" {
		out = append(out, "Consider a "+v+" budget constraint.")
	}
	if v := strings.TrimSpace(f.SkillLevel); v != "" {
		out = append(out, "Target "+v+" skill level.")
	}
	if f.AIUse {
		out = append(out, "Incorporate AI technology as a core component.")
	}
	return out
}

// BuildInstruction 拼接基础指令与约束语句
func BuildInstruction(base string, f *wfmodel.IdeaFilters) string {
	parts := append([]string{strings.TrimSpace(base)}, Directives(f)...)
	return strings.Join(parts, directiveSeparator)
}
