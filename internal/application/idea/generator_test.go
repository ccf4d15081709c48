package idea

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfchain "bizprompt-api/internal/workflow/chain"
	wfmodel "bizprompt-api/internal/workflow/model"
	"bizprompt-api/internal/workflow/port/porttest"
	apperrors "bizprompt-api/pkg/errors"
)

const petPalJSON = `{
  "name": "PetPal",
  "description": "Dog walking marketplace.",
  "monetization": "15% commission",
  "tools_needed": ["React Native", "Stripe"],
  "time_to_mvp": "6-8 weeks",
  "difficulty": "Intermediate",
  "category": "Marketplace"
}`

func newTestGenerator(chatModel *porttest.ChatModel) *Generator {
	factory := &porttest.Factory{Model: chatModel}
	return NewGenerator(NewNormalizer(nil), wfchain.NewIdeaChain(factory, nil), "openai")
}

func TestGenerateRejectsBlankPromptWithoutCallingModel(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		chatModel := porttest.NewChatModel(petPalJSON)
		g := newTestGenerator(chatModel)

		idea, err := g.Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: prompt})
		require.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, idea)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
		assert.Empty(t, chatModel.Calls())
	}

	_, err := newTestGenerator(porttest.NewChatModel()).Generate(context.Background(), nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestGenerateDecodesIdea(t *testing.T) {
	chatModel := porttest.NewChatModel("Sure! Here it is:\n```json\n" + petPalJSON + "\n```")
	g := newTestGenerator(chatModel)

	idea, err := g.Generate(context.Background(), &wfmodel.IdeaRequest{
		Prompt:  "dog walking app",
		Filters: &wfmodel.IdeaFilters{Industry: "pets", AIUse: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "PetPal", idea.Name)
	assert.Equal(t, []string{"React Native", "Stripe"}, idea.ToolsNeeded)
	assert.Equal(t, "Marketplace", idea.Category)

	calls := chatModel.Calls()
	require.Len(t, calls, 1)
	system := calls[0].Messages[0].Content
	assert.Contains(t, system, "Focus on the pets industry.")
	assert.Contains(t, system, "Incorporate AI technology as a core component.")
	assert.Equal(t, "dog walking app", calls[0].Messages[1].Content)
}

func TestGeneratePassesMissingFieldsThrough(t *testing.T) {
	g := newTestGenerator(porttest.NewChatModel(`{"name":"Solo"}`))

	idea, err := g.Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, wfmodel.GeneratedIdea{Name: "Solo"}, *idea)
}

func TestGenerateEmptyResponse(t *testing.T) {
	tests := []struct {
		name  string
		model *porttest.ChatModel
	}{
		{name: "blank content", model: porttest.NewChatModel("  \n ")},
		{name: "no message", model: porttest.NewChatModel().WithResponse(nil)},
		{name: "no candidates", model: porttest.NewChatModel()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idea, err := newTestGenerator(tt.model).Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
			require.ErrorIs(t, err, ErrEmptyResponse)
			assert.Nil(t, idea)
			assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
			assert.Len(t, tt.model.Calls(), 1)
		})
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	for _, content := range []string{
		"I cannot help with that.",
		`{"name": "Broken",`,
		`["not", "an", "object"]`,
		`{"name":"A","tools_needed":"Stripe"}`,
	} {
		idea, err := newTestGenerator(porttest.NewChatModel(content)).Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrMalformedResponse, content)
		assert.Nil(t, idea, content)
		assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
	}
}

func TestGenerateExtractsObjectFromSurroundingProse(t *testing.T) {
	idea, err := newTestGenerator(porttest.NewChatModel(`Sure! {"name":"Inline","difficulty":"beginner"} Hope this helps.`)).
		Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Inline", idea.Name)
	assert.Equal(t, "beginner", idea.Difficulty)

	// 两个对象之间的说明文字会落入截取范围，整体不再是合法 JSON
	idea, err = newTestGenerator(porttest.NewChatModel(`Option A: {"name":"A"} or option B: {"name":"B"}`)).
		Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Nil(t, idea)
}

func TestGenerateTransportError(t *testing.T) {
	chatModel := porttest.NewChatModel(petPalJSON).WithError(errors.New("dial tcp: i/o timeout"))
	g := newTestGenerator(chatModel)

	idea, err := g.Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
	require.ErrorIs(t, err, ErrTransport)
	assert.Nil(t, idea)
	assert.Contains(t, err.Error(), "i/o timeout")
	assert.Equal(t, "transport_error", Outcome(err))
	assert.Len(t, chatModel.Calls(), 1)
}

func TestGenerateFactoryError(t *testing.T) {
	factory := &porttest.Factory{Err: errors.New("provider missing")}
	g := NewGenerator(nil, wfchain.NewIdeaChain(factory, nil), "")

	_, err := g.Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
	require.ErrorIs(t, err, ErrTransport)
}

func TestRegeneratePreservesPromptAndFilters(t *testing.T) {
	chatModel := porttest.NewChatModel(
		`{"name":"First","tools_needed":["Go"],"difficulty":"Beginner"}`,
		`{"name":"Second","tools_needed":["Rust"],"difficulty":"Advanced"}`,
	)
	g := newTestGenerator(chatModel)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	req := &wfmodel.IdeaRequest{
		Prompt:  "  a niche SaaS ",
		Filters: &wfmodel.IdeaFilters{Budget: "low", SkillLevel: "Beginner"},
	}

	first, err := g.Regenerate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Regenerate(context.Background(), req)
	require.NoError(t, err)

	for _, res := range []*wfmodel.GenerationResult{first, second} {
		assert.Equal(t, "  a niche SaaS ", res.Prompt)
		assert.Equal(t, &wfmodel.IdeaFilters{Budget: "low", SkillLevel: "Beginner"}, res.Filters)
		assert.Equal(t, fixed, res.Timestamp)
	}
	assert.Equal(t, "First", first.Idea.Name)
	assert.Equal(t, "Second", second.Idea.Name)

	calls := chatModel.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].Messages[0].Content, calls[1].Messages[0].Content)
	assert.Equal(t, calls[0].Messages[1].Content, calls[1].Messages[1].Content)
}

func TestDecodeIdeaNeverReturnsPartialIdea(t *testing.T) {
	idea, err := DecodeIdea(`{"name":"Half","description":`)
	require.Error(t, err)
	assert.Nil(t, idea)
}

type stubInvoker struct {
	msg *schema.Message
	err error
}

func (s stubInvoker) Invoke(context.Context, *wfmodel.IdeaGenerateInput) (*schema.Message, error) {
	return s.msg, s.err
}

func TestGenerateWithNilMessageFromInvoker(t *testing.T) {
	g := NewGenerator(nil, stubInvoker{}, "")
	_, err := g.Generate(context.Background(), &wfmodel.IdeaRequest{Prompt: "x"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOutcomeLabels(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "validation_error", Outcome(ErrValidation))
	assert.Equal(t, "empty_response", Outcome(ErrEmptyResponse))
	assert.Equal(t, "malformed_response", Outcome(ErrMalformedResponse.WithDetail("x")))
	assert.Equal(t, "transport_error", Outcome(errors.New("boom")))
}
