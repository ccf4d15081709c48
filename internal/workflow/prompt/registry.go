package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptIdeaV1 PromptID = "idea_v1"
)

// 模板变量名
const (
	VarInstruction = "instruction"
	VarPrompt      = "prompt"
)

// Registry 缓存嵌入的提示词文本与 ChatTemplate
type Registry struct {
	mu        sync.RWMutex
	texts     map[PromptID]string
	templates map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		texts:     make(map[PromptID]string),
		templates: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

// SystemText 返回提示词的基础系统指令（不含任何过滤条件）
func (r *Registry) SystemText(id PromptID) (string, error) {
	if r == nil {
		return "", fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if text, ok := r.texts[id]; ok {
		r.mu.RUnlock()
		return text, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if text, ok := r.texts[id]; ok {
		return text, nil
	}

	path, err := resolveSystemFile(id)
	if err != nil {
		return "", err
	}
	text, err := readEmbeddedText(path)
	if err != nil {
		return "", err
	}
	r.texts[id] = text
	return text, nil
}

// ChatTemplate 返回两段式消息模板：system 为完整指令，user 为原始提示词。
// 指令与提示词均以变量注入，内容中的花括号不会被当作占位符解析。
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}
	if _, err := resolveSystemFile(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	if tpl, ok := r.templates[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.templates[id]; ok {
		return tpl, nil
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{"+VarInstruction+"}"),
		schema.UserMessage("{"+VarPrompt+"}"),
	)
	r.templates[id] = tpl
	return tpl, nil
}

func resolveSystemFile(id PromptID) (string, error) {
	switch id {
	case PromptIdeaV1:
		return "templates/idea_v1.system.txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
