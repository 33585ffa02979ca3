// Command tts-stub serves a minimal OpenAI-compatible speech endpoint for
// local runs of wetterbericht with --engine openai.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// silentFrame is one MPEG-1 Layer III frame (128 kbit/s, 44.1 kHz) of silence.
func silentFrame() []byte {
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
	return frame
}

func newMux(model string, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()
		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			http.Error(w, "input is required", http.StatusBadRequest)
			return
		}
		if req.ResponseFormat != "" && req.ResponseFormat != "mp3" {
			http.Error(w, "only mp3 is supported", http.StatusBadRequest)
			return
		}
		logger.Printf("speech model=%s voice=%s chars=%d", req.Model, req.Voice, len(req.Input))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(silentFrame())
	})
	return mux
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "tts-1"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Printf("tts-stub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, newMux(model, logger)); err != nil {
		logger.Fatal(err)
	}
}
