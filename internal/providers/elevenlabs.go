package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"voice-transcriber/internal/ports"
)

// elevenlabs calls the speech-to-text REST endpoint directly; the vendor
// ships no Go SDK.
type elevenlabs struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type elevenlabsTranscript struct {
	Text string `json:"text"`
}

func newElevenLabs(apiKey, baseURL string, httpClient *http.Client) *elevenlabs {
	return &elevenlabs{apiKey: apiKey, baseURL: pick(baseURL, DefaultElevenLabsBaseURL), httpClient: httpClient}
}

func (e *elevenlabs) Transcribe(ctx context.Context, req ports.TranscriptionRequest) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", audioFilename(req.MimeType))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(req.Audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model_id", req.Model); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := pick(req.BaseURL, e.baseURL) + "/v1/speech-to-text"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("elevenlabs", resp)
	}

	var transcript elevenlabsTranscript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return "", fmt.Errorf("elevenlabs response parse error: %w", err)
	}
	return strings.TrimSpace(transcript.Text), nil
}

func (e *elevenlabs) probe(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/v1/user", nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("elevenlabs", resp)
	}
	return nil
}
