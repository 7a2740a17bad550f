package openai

import (
	"context"
	"errors"
	"strings"

	openaiapi "github.com/sashabaranov/go-openai"

	"verdict-game/internal/domain"
	"verdict-game/internal/usecase/persona"
)

// chatAPI is the part of the go-openai client the adapter uses.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openaiapi.ChatCompletionRequest) (openaiapi.ChatCompletionResponse, error)
	CreateSpeech(ctx context.Context, req openaiapi.CreateSpeechRequest) (openaiapi.RawResponse, error)
}

type Client struct {
	api chatAPI
}

func NewClient(token string) *Client {
	return &Client{
		api: openaiapi.NewClient(token),
	}
}

func (c *Client) Complete(ctx context.Context, req persona.CompletionRequest) (string, error) {
	apiReq := openaiapi.ChatCompletionRequest{
		Model:               req.Model,
		MaxCompletionTokens: req.MaxCompletionTokens,
		Temperature:         req.Temperature,
		TopP:                req.TopP,
		N:                   1,
		Stream:              false,
		Messages:            toAPIMessages(req.Messages),
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai returned empty message content")
	}
	return content, nil
}

func toAPIMessages(msgs []domain.Message) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}

var _ persona.Client = (*Client)(nil)
