package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"
)

// Google synthesizes through the Cloud Text-to-Speech REST API.
type Google struct {
	Voice Voice
	svc   *texttospeech.Service
}

// CredentialsOption loads a service-account key file for use with NewGoogle.
func CredentialsOption(ctx context.Context, keyFile string) (option.ClientOption, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, texttospeech.CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parse key file %s: %w", keyFile, err)
	}
	return option.WithCredentials(creds), nil
}

// NewGoogle creates the API client. Callers pass CredentialsOption or any
// other client option (endpoint, HTTP client) they need.
func NewGoogle(ctx context.Context, voice Voice, opts ...option.ClientOption) (*Google, error) {
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech client: %w", err)
	}
	return &Google{Voice: voice, svc: svc}, nil
}

// Synthesize sends the document as SSML input. API errors are returned
// unchanged inside the wrap so their message reaches the user verbatim.
func (g *Google) Synthesize(ctx context.Context, ssml string) ([]byte, error) {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Ssml: ssml},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: g.Voice.LanguageCode,
			Name:         g.Voice.Name,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: g.Voice.AudioEncoding,
			Pitch:         g.Voice.Pitch,
			SpeakingRate:  g.Voice.SpeakingRate,
		},
	}
	resp, err := g.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}
