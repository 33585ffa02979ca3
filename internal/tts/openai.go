package tts

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/wetterbericht/internal/ssml"
)

// OpenAI synthesizes through an OpenAI-compatible /audio/speech endpoint.
// Those engines take plain text, so the document is reduced with
// ssml.PlainText first and pauses are lost.
type OpenAI struct {
	Client *openai.Client
	Model  string
	Voice  string
	Speed  float64
}

// NewOpenAI builds a client for baseURL (empty means the OpenAI default).
func NewOpenAI(baseURL, apiKey, model, voice string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceOnyx)
	}
	return &OpenAI{Client: openai.NewClientWithConfig(cfg), Model: model, Voice: voice, Speed: 1.0}
}

func (o *OpenAI) Synthesize(ctx context.Context, doc string) ([]byte, error) {
	resp, err := o.Client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.Model),
		Input:          ssml.PlainText(doc),
		Voice:          openai.SpeechVoice(o.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          o.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Close()
	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}
