package idea

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	llmctx "bizprompt-api/internal/domain/service"
	wfmodel "bizprompt-api/internal/workflow/model"
	wfnode "bizprompt-api/internal/workflow/node"
	"bizprompt-api/pkg/logger"
	"bizprompt-api/pkg/metrics"
)

// IdeaInvoker 执行一次模型调用
type IdeaInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.IdeaGenerateInput) (*schema.Message, error)
}

// Generator 组合规范化、模型调用与解码
type Generator struct {
	normalizer *Normalizer
	chain      IdeaInvoker
	provider   string
	now        func() time.Time
}

// NewGenerator 创建创意生成器，provider 为空时使用默认提供商
func NewGenerator(normalizer *Normalizer, chain IdeaInvoker, provider string) *Generator {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Generator{
		normalizer: normalizer,
		chain:      chain,
		provider:   strings.TrimSpace(provider),
		now:        time.Now,
	}
}

// Generate 生成一个新创意。校验失败时不会调用模型。
func (g *Generator) Generate(ctx context.Context, req *wfmodel.IdeaRequest) (*wfmodel.GeneratedIdea, error) {
	return g.run(ctx, llmctx.WorkflowIdeaGenerate, req)
}

// Regenerate 以相同的提示词与过滤条件重新生成，结果整体替换调用方持有的旧结果
func (g *Generator) Regenerate(ctx context.Context, req *wfmodel.IdeaRequest) (*wfmodel.GenerationResult, error) {
	idea, err := g.run(ctx, llmctx.WorkflowIdeaRegenerate, req)
	if err != nil {
		return nil, err
	}
	return &wfmodel.GenerationResult{
		Prompt:    req.Prompt,
		Filters:   req.Filters,
		Idea:      *idea,
		Timestamp: g.now().UTC(),
	}, nil
}

func (g *Generator) run(ctx context.Context, workflow string, req *wfmodel.IdeaRequest) (idea *wfmodel.GeneratedIdea, err error) {
	start := time.Now()
	defer func() {
		metrics.IdeaGenerationTotal.WithLabelValues(workflow, Outcome(err)).Inc()
		if err == nil {
			metrics.IdeaGenerationDuration.WithLabelValues(workflow).Observe(time.Since(start).Seconds())
		}
	}()

	instruction, err := g.normalizer.Normalize(req)
	if err != nil {
		return nil, err
	}
	if g.chain == nil {
		return nil, ErrTransport.WithDetail("llm chain not configured")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, workflow, g.provider)
	msg, err := g.chain.Invoke(ctx, &wfmodel.IdeaGenerateInput{
		Provider:    g.provider,
		Instruction: instruction.System,
		Prompt:      instruction.Prompt,
	})
	if err != nil {
		return nil, ErrTransport.WithError(err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, ErrEmptyResponse
	}

	idea, err = DecodeIdea(msg.Content)
	if err != nil {
		logger.Warn(ctx, "llm returned undecodable idea",
			"workflow", workflow,
			"content_len", len(msg.Content),
			"content_head", head(msg.Content, 200),
		)
		return nil, err
	}
	return idea, nil
}

// DecodeIdea 将模型文本解码为创意对象。
// 只要求是合法的 JSON 对象且字段类型匹配，缺失字段保持为空，不做补全。
func DecodeIdea(content string) (*wfmodel.GeneratedIdea, error) {
	raw := wfnode.ExtractJSONObject(content)
	if !strings.HasPrefix(raw, "{") {
		return nil, ErrMalformedResponse.WithDetail("response is not a JSON object")
	}

	var idea wfmodel.GeneratedIdea
	if err := json.Unmarshal([]byte(raw), &idea); err != nil {
		return nil, ErrMalformedResponse.WithError(err)
	}
	return &idea, nil
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
