// Package porttest 提供工作流 port 的测试替身
package porttest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Call 记录一次 Generate 调用
type Call struct {
	Messages    []*schema.Message
	Temperature *float32
	MaxTokens   *int
}

// ChatModel 按顺序返回预置响应的 ChatModel
type ChatModel struct {
	mu        sync.Mutex
	responses []*schema.Message
	errs      []error
	calls     []Call
}

// NewChatModel 创建返回给定内容的 ChatModel，每次调用依次消费一个响应，最后一个会重复使用
func NewChatModel(contents ...string) *ChatModel {
	m := &ChatModel{}
	for _, c := range contents {
		m.responses = append(m.responses, schema.AssistantMessage(c, nil))
	}
	return m
}

// WithResponse 追加一个原始响应（可为 nil）
func (m *ChatModel) WithResponse(msg *schema.Message) *ChatModel {
	m.responses = append(m.responses, msg)
	return m
}

// WithError 使下一次调用返回错误
func (m *ChatModel) WithError(err error) *ChatModel {
	m.errs = append(m.errs, err)
	return m
}

func (m *ChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	common := model.GetCommonOptions(nil, opts...)
	m.calls = append(m.calls, Call{
		Messages:    input,
		Temperature: common.Temperature,
		MaxTokens:   common.MaxTokens,
	})

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	if len(m.responses) == 0 {
		return nil, nil
	}
	msg := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return msg, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls 返回已记录的调用
func (m *ChatModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Factory 总是返回同一个 ChatModel 的工厂
type Factory struct {
	Model model.BaseChatModel
	Err   error

	mu    sync.Mutex
	names []string
}

func (f *Factory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.mu.Lock()
	f.names = append(f.names, name)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Model, nil
}

// Names 返回请求过的提供商名称
func (f *Factory) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}
