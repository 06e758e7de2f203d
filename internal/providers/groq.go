package providers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voice-transcriber/internal/ports"
)

// groq talks to Groq's OpenAI-compatible API for both capabilities.
type groq struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newGroq(apiKey, baseURL string, httpClient *http.Client) *groq {
	return &groq{apiKey: apiKey, baseURL: pick(baseURL, DefaultGroqBaseURL), httpClient: httpClient}
}

func (g *groq) client(baseURL string) openai.Client {
	return openai.NewClient(
		option.WithAPIKey(g.apiKey),
		option.WithBaseURL(pick(baseURL, g.baseURL)),
		option.WithHTTPClient(g.httpClient),
		option.WithMaxRetries(1),
	)
}

func (g *groq) Transcribe(ctx context.Context, req ports.TranscriptionRequest) (string, error) {
	client := g.client(req.BaseURL)
	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(req.Audio), audioFilename(req.MimeType), req.MimeType),
		Model:          openai.AudioModel(req.Model),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}

	response, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if response == nil {
		return "", errors.New("groq returned no transcription")
	}
	return strings.TrimSpace(response.Text), nil
}

// Transform sends every prompt block as a text part of a single user message.
func (g *groq) Transform(ctx context.Context, req ports.TransformationRequest) (string, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(req.Blocks))
	for _, block := range req.Blocks {
		parts = append(parts, openai.TextContentPart(block))
	}

	client := g.client("")
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("groq returned no choices")
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("groq returned an empty completion")
	}
	return text, nil
}

func (g *groq) probe(ctx context.Context) error {
	client := g.client("")
	_, err := client.Models.List(ctx)
	return err
}
