package chat

// LeakDetector flags replies that disclose the secret word.
type LeakDetector struct {
	prompts *PromptProvider
}

// NewLeakDetector constructs a LeakDetector.
func NewLeakDetector(prompts *PromptProvider) *LeakDetector {
	return &LeakDetector{prompts: prompts}
}

// Evaluate reports whether the reply text leaks the secret word. Pure
// function of its input.
func (d *LeakDetector) Evaluate(replyText string) bool {
	return d.prompts.ContainsSecret(replyText)
}
