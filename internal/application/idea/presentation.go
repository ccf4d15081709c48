package idea

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	wfmodel "bizprompt-api/internal/workflow/model"
)

// DifficultyClass 难度展示分类
type DifficultyClass string

const (
	DifficultyBeginner     DifficultyClass = "Beginner"
	DifficultyIntermediate DifficultyClass = "Intermediate"
	DifficultyAdvanced     DifficultyClass = "Advanced"
	DifficultyUnknown      DifficultyClass = "Unknown"
)

// Tone 难度徽章的配色
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneYellow Tone = "yellow"
	ToneRed    Tone = "red"
	ToneGray   Tone = "gray"
)

// ClassifyDifficulty 大小写不敏感地匹配三个已知难度，其余一律为 Unknown
func ClassifyDifficulty(difficulty string) DifficultyClass {
	switch strings.ToLower(difficulty) {
	case "beginner":
		return DifficultyBeginner
	case "intermediate":
		return DifficultyIntermediate
	case "advanced":
		return DifficultyAdvanced
	default:
		return DifficultyUnknown
	}
}

// Tone 返回分类对应的配色，Unknown 为中性灰
func (d DifficultyClass) Tone() Tone {
	switch d {
	case DifficultyBeginner:
		return ToneGreen
	case DifficultyIntermediate:
		return ToneYellow
	case DifficultyAdvanced:
		return ToneRed
	default:
		return ToneGray
	}
}

// maxMVPWeeks MVP 周期上限（含）
const maxMVPWeeks = 12

var weekPattern = regexp.MustCompile(`(\d+)(?:\s*-\s*(\d+))?\s*week`)

// IsReasonableMVPTime 判断 time_to_mvp 是否值得展示。
// 含 year/month 的描述、没有 "<n>[-<m>] week" 形式的描述、上限超过 12 周的描述都不展示。
func IsReasonableMVPTime(value string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	if strings.Contains(lower, "year") || strings.Contains(lower, "month") {
		return false
	}

	m := weekPattern.FindStringSubmatch(lower)
	if m == nil {
		return false
	}
	upper := m[1]
	if m[2] != "" {
		upper = m[2]
	}
	weeks, err := strconv.Atoi(upper)
	if err != nil {
		return false
	}
	return weeks <= maxMVPWeeks
}

// ExportText 按固定顺序渲染纯文本，相同输入输出逐字节一致
func ExportText(idea wfmodel.GeneratedIdea, prompt string) string {
	var b strings.Builder
	b.WriteString("Business Idea: " + idea.Name + "\n\n")
	b.WriteString("Description: " + idea.Description + "\n\n")
	b.WriteString("Monetization: " + idea.Monetization + "\n\n")
	b.WriteString("Tools Needed: " + strings.Join(idea.ToolsNeeded, ", ") + "\n\n")
	b.WriteString("Time to MVP: " + idea.TimeToMVP + "\n\n")
	b.WriteString("Difficulty: " + idea.Difficulty + "\n\n")
	b.WriteString(`Generated with BizPrompt from prompt: "` + prompt + `"`)
	return strings.TrimSpace(b.String())
}

// View 服务端渲染一条生成结果所需的全部展示决策
type View struct {
	Prompt       string   `json:"prompt"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Monetization string   `json:"monetization"`
	ToolsNeeded  []string `json:"tools_needed"`

	Difficulty      string          `json:"difficulty"`
	DifficultyClass DifficultyClass `json:"difficulty_class"`
	DifficultyTone  Tone            `json:"difficulty_tone"`

	// TimeToMVP 仅在通过合理性检查时填充
	TimeToMVP string `json:"time_to_mvp,omitempty"`
	Category  string `json:"category,omitempty"`

	ExportText string    `json:"export_text"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewView 由生成结果构造展示视图
func NewView(result wfmodel.GenerationResult) View {
	idea := result.Idea
	class := ClassifyDifficulty(idea.Difficulty)

	tools := idea.ToolsNeeded
	if tools == nil {
		tools = []string{}
	}

	v := View{
		Prompt:          result.Prompt,
		Name:            idea.Name,
		Description:     idea.Description,
		Monetization:    idea.Monetization,
		ToolsNeeded:     tools,
		Difficulty:      idea.Difficulty,
		DifficultyClass: class,
		DifficultyTone:  class.Tone(),
		Category:        strings.TrimSpace(idea.Category),
		ExportText:      ExportText(idea, result.Prompt),
		Timestamp:       result.Timestamp,
	}
	if IsReasonableMVPTime(idea.TimeToMVP) {
		v.TimeToMVP = idea.TimeToMVP
	}
	return v
}
