package providers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"voice-transcriber/internal/ports"
)

const transcriptionInstruction = "Transcribe this audio verbatim. Return only the transcript text."

// google uses the Gemini API for transcription and transformation.
type google struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newGoogle(apiKey, baseURL string, httpClient *http.Client) *google {
	return &google{apiKey: apiKey, baseURL: strings.TrimSpace(baseURL), httpClient: httpClient}
}

func (g *google) client(ctx context.Context, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		APIKey:     g.apiKey,
		HTTPClient: g.httpClient,
	}
	if url := pick(baseURL, g.baseURL); url != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: url + "/"}
	}
	return genai.NewClient(ctx, cfg)
}

func (g *google) Transcribe(ctx context.Context, req ports.TranscriptionRequest) (string, error) {
	client, err := g.client(ctx, req.BaseURL)
	if err != nil {
		return "", err
	}

	mimeType, _, _ := strings.Cut(req.MimeType, ";")
	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(transcriptionInstruction),
				genai.NewPartFromBytes(req.Audio, strings.TrimSpace(mimeType)),
			},
			genai.RoleUser,
		),
	}
	return generate(ctx, client, req.Model, contents)
}

// Transform sends every prompt block as its own text part, in order.
func (g *google) Transform(ctx context.Context, req ports.TransformationRequest) (string, error) {
	client, err := g.client(ctx, "")
	if err != nil {
		return "", err
	}

	parts := make([]*genai.Part, 0, len(req.Blocks))
	for _, block := range req.Blocks {
		parts = append(parts, genai.NewPartFromText(block))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return generate(ctx, client, req.Model, contents)
}

func (g *google) probe(ctx context.Context) error {
	client, err := g.client(ctx, "")
	if err != nil {
		return err
	}
	_, err = client.Models.List(ctx, &genai.ListModelsConfig{PageSize: 1})
	return err
}

func generate(ctx context.Context, client *genai.Client, model string, contents []*genai.Content) (string, error) {
	response, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(response.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}
