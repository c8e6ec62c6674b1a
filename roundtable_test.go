package roundtable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/roundtable/testutil"
	"github.com/BaSui01/roundtable/testutil/mocks"
)

func TestNew_RequiresProvider(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider is required")
}

func TestNew_RequiresAPIKeyForShortcut(t *testing.T) {
	// 不能并行: 依赖于环境变量为空
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New(WithOpenAI("gpt-4o-mini"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNew_WithProvider(t *testing.T) {
	t.Parallel()

	provider := mocks.NewMockProvider("hello from mock")
	a, err := New(
		WithProvider(provider),
		WithName("greeter"),
		WithSystemPrompt("You greet people."),
		WithTemperature(0.3),
	)
	require.NoError(t, err)

	reply, err := a.Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello from mock", reply.Content)
}

func TestNew_OpenAIShortcut(t *testing.T) {
	t.Parallel()

	a, err := New(
		WithOpenAI("gpt-4o-mini"),
		WithAPIKey("sk-test"),
	)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestNew_AnthropicShortcut(t *testing.T) {
	t.Parallel()

	a, err := New(
		WithAnthropic("claude-3-5-sonnet-20241022"),
		WithAPIKey("sk-ant-test"),
	)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestNewManager_RoundRobin(t *testing.T) {
	t.Parallel()

	m := NewManager(WithManagerLogger(testutil.NewTestLogger(t)))

	a1, err := New(WithProvider(mocks.NewMockProvider("first says hi")), WithName("first"))
	require.NoError(t, err)
	a2, err := New(WithProvider(mocks.NewMockProvider("second says hi")), WithName("second"))
	require.NoError(t, err)

	require.NoError(t, m.Register(a1))
	require.NoError(t, m.Register(a2))

	conv, err := m.RunConversation(context.Background(), ConversationSpec{
		Opening:  "please introduce yourselves",
		Speakers: []string{a1.ID(), a2.ID()},
		Rounds:   1,
	})
	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, "second says hi", conv.Final())
}
