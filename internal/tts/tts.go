// Package tts hands the assembled speech document to a synthesis service and
// returns the encoded audio.
package tts

import (
	"context"
)

// Synthesizer converts a speech document into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, ssml string) ([]byte, error)
}

// German voices offered by Google Cloud Text-to-Speech.
const (
	VoiceWaveNet  = "de-DE-Wavenet-B"
	VoiceStandard = "de-DE-Standard-B"
)

// Voice selects the speaker and audio format.
type Voice struct {
	LanguageCode  string
	Name          string
	Pitch         float64
	SpeakingRate  float64
	AudioEncoding string
}

// GermanVoice returns the report voice. highQuality selects WaveNet.
func GermanVoice(highQuality bool) Voice {
	name := VoiceStandard
	if highQuality {
		name = VoiceWaveNet
	}
	return Voice{
		LanguageCode:  "de",
		Name:          name,
		Pitch:         -1,
		SpeakingRate:  1.0,
		AudioEncoding: "MP3",
	}
}
