package openai

import (
	"context"
	"io"

	openaiapi "github.com/sashabaranov/go-openai"

	"verdict-game/internal/usecase/tts"
)

func (c *Client) Speech(ctx context.Context, req tts.Request) (tts.Response, error) {
	resp, err := c.api.CreateSpeech(ctx, openaiapi.CreateSpeechRequest{
		Model:          openaiapi.SpeechModel(req.Model),
		Input:          req.Text,
		Voice:          openaiapi.SpeechVoice(req.Voice),
		ResponseFormat: openaiapi.SpeechResponseFormat(req.Format),
	})
	if err != nil {
		return tts.Response{}, err
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return tts.Response{}, err
	}
	return tts.Response{Data: data, Format: req.Format}, nil
}

var _ tts.Client = (*Client)(nil)
