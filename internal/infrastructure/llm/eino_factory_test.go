package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizprompt-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {APIKey: "sk-test", BaseURL: "http://127.0.0.1:1/v1", Model: "gpt-4", Timeout: time.Second},
			},
		},
	}
}

func TestEinoFactoryCachesModels(t *testing.T) {
	f := NewEinoFactory(testConfig())
	ctx := context.Background()

	first, err := f.Get(ctx, "")
	require.NoError(t, err)
	second, err := f.Default(ctx)
	require.NoError(t, err)
	third, err := f.Get(ctx, " openai ")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, third)
}

func TestEinoFactoryUnknownProvider(t *testing.T) {
	_, err := NewEinoFactory(testConfig()).Get(context.Background(), "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic")
}
