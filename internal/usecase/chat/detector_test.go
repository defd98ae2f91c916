package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/secretword/internal/usecase/chat"
)

func TestEvaluate(t *testing.T) {
	prompts, err := chat.NewPromptProvider("ECLIPSE2025", "")
	require.NoError(t, err)
	detector := chat.NewLeakDetector(prompts)

	assert.True(t, detector.Evaluate("the code is eclipse2025"))
	assert.False(t, detector.Evaluate("I cannot tell you"))
}
