package eino

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizprompt-api/internal/domain/service"
	"bizprompt-api/pkg/logger"
)

type recordingRecorder struct {
	inputs []service.LLMUsageInput
	err    error
}

func (r *recordingRecorder) Record(_ context.Context, in service.LLMUsageInput) error {
	r.inputs = append(r.inputs, in)
	return r.err
}

func TestModelCallbackRecordsUsage(t *testing.T) {
	rec := &recordingRecorder{}
	h := newChatModelCallbackHandler(rec)
	info := &einocb.RunInfo{Name: "idea.llm", Type: "OpenAI"}

	ctx := service.WithWorkflowProvider(context.Background(), service.WorkflowIdeaGenerate, "openai")
	ctx = logger.WithContext(ctx, logger.RequestIDKey, "req-7")

	ctx = h.OnStart(ctx, info, &model.CallbackInput{Config: &model.Config{Model: "gpt-4"}})
	h.OnEnd(ctx, info, &model.CallbackOutput{
		TokenUsage: &model.TokenUsage{PromptTokens: 30, CompletionTokens: 70, TotalTokens: 100},
	})

	require.Len(t, rec.inputs, 1)
	in := rec.inputs[0]
	assert.Equal(t, "req-7", in.RequestID)
	assert.Equal(t, "idea_generate", in.Workflow)
	assert.Equal(t, "openai", in.Provider)
	assert.Equal(t, "gpt-4", in.Model)
	assert.Equal(t, 30, in.PromptTokens)
	assert.Equal(t, 70, in.CompletionTokens)
}

func TestModelCallbackWithoutUsageSkipsRecorder(t *testing.T) {
	rec := &recordingRecorder{}
	h := newChatModelCallbackHandler(rec)

	ctx := h.OnStart(context.Background(), nil, nil)
	h.OnEnd(ctx, nil, &model.CallbackOutput{})

	assert.Empty(t, rec.inputs)
}

func TestModelCallbackRecorderErrorIsIgnored(t *testing.T) {
	rec := &recordingRecorder{err: errors.New("db down")}
	h := newChatModelCallbackHandler(rec)

	ctx := h.OnStart(context.Background(), nil, nil)
	assert.NotPanics(t, func() {
		h.OnEnd(ctx, nil, &model.CallbackOutput{TokenUsage: &model.TokenUsage{PromptTokens: 1}})
	})
	assert.Len(t, rec.inputs, 1)
}

func TestModelCallbackOnError(t *testing.T) {
	h := newChatModelCallbackHandler(nil)

	ctx := h.OnStart(context.Background(), nil, &model.CallbackInput{Config: &model.Config{Model: "gpt-4"}})
	assert.Equal(t, "gpt-4", modelNameFromOutput(ctx, nil))
	assert.NotPanics(t, func() {
		h.OnError(ctx, nil, errors.New("timeout"))
	})
}
