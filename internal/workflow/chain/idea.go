package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "bizprompt-api/internal/domain/service"
	wfmodel "bizprompt-api/internal/workflow/model"
	workflowport "bizprompt-api/internal/workflow/port"
	workflowprompt "bizprompt-api/internal/workflow/prompt"
)

// 生成参数固定：偏向创意多样性，并限制输出长度
const (
	IdeaTemperature float32 = 0.8
	IdeaMaxTokens           = 800
)

// IdeaChain 单次调用模型生成创意：init → template → llm → finalize。
// 不做重试；模型未返回消息时输出空内容的 assistant 消息，由调用方判定。
type IdeaChain struct {
	factory workflowport.ChatModelFactory
	prompts *workflowprompt.Registry

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.IdeaGenerateInput, *schema.Message]
	chainErr  error
}

func NewIdeaChain(factory workflowport.ChatModelFactory, prompts *workflowprompt.Registry) *IdeaChain {
	if prompts == nil {
		prompts = workflowprompt.NewRegistry()
	}
	return &IdeaChain{factory: factory, prompts: prompts}
}

func (c *IdeaChain) Invoke(ctx context.Context, in *wfmodel.IdeaGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type ideaChainState struct {
	In       *wfmodel.IdeaGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *IdeaChain) getChain() (compose.Runnable[*wfmodel.IdeaGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *IdeaChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.IdeaGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.IdeaGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.IdeaGenerateInput) (*ideaChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &ideaChainState{In: in}, nil
		}),
		compose.WithNodeName("idea.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *ideaChainState) (*ideaChainState, error) {
			msgs, err := c.formatMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("idea.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *ideaChainState) (*ideaChainState, error) {
			provider := strings.TrimSpace(st.In.Provider)
			ctx = llmctx.WithWorkflowProvider(ctx, "", provider)

			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, ideaModelOptions()...)
			if err != nil {
				return nil, err
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("idea.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *ideaChainState) (*schema.Message, error) {
			if st.OutMsg == nil {
				return &schema.Message{Role: schema.Assistant}, nil
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("idea.finalize"),
	)

	return chain.Compile(ctx)
}

func (c *IdeaChain) formatMessages(ctx context.Context, in *wfmodel.IdeaGenerateInput) ([]*schema.Message, error) {
	tpl, err := c.prompts.ChatTemplate(workflowprompt.PromptIdeaV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, map[string]any{
		workflowprompt.VarInstruction: in.Instruction,
		workflowprompt.VarPrompt:      in.Prompt,
	})
}

func ideaModelOptions() []model.Option {
	return []model.Option{
		model.WithTemperature(IdeaTemperature),
		model.WithMaxTokens(IdeaMaxTokens),
	}
}
