package openai

import (
	"context"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Recap struct {
	cli oa.Client
}

func NewRecap(apiKey string) *Recap {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return &Recap{cli: client}
}

// Recap turns the current portfolio lines into a short natural-language
// briefing.
func (r *Recap) Recap(ctx context.Context, lines []string) (string, error) {
	if len(lines) == 0 {
		return "Nothing to recap yet - the portfolio is empty.", nil
	}
	resp, err := r.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: "gpt-4",
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage("You are a concise crypto portfolio assistant. Given current holdings with values and 24h moves, write a short recap: overall direction, the biggest mover, and anything notable. A few plain sentences, no bullet points, no financial advice."),
			oa.UserMessage("Current portfolio:\n" + strings.Join(lines, "\n")),
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
