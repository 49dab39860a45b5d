package openai

import (
	"context"
	"os"
	"testing"

	"github.com/barekit/adscope/pkg/llm"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/option"
)

func TestProvider_Chat_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env") // Try to load .env from root
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping OpenAI integration test: OPENAI_API_KEY not set")
	}

	provider := New(option.WithAPIKey(apiKey))
	provider.SetModel("gpt-4o-mini")

	ctx := context.Background()
	response, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Reply with just the number."},
		{Role: llm.RoleUser, Content: "What is 2+2?"},
	}, &llm.Options{MaxTokens: 10})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if response.Content != "4" {
		t.Logf("Expected '4', got '%s'", response.Content)
		// Allow some flexibility in LLM response, but it should contain 4
	}
}
