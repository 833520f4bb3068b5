package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// cannedAnswers maps a distinctive instruction fragment to a fixed reply so
// offline runs render something recognisable in every slot.
var cannedAnswers = []struct {
	match string
	reply string
}{
	{"biased or neutral", "• Mostly neutral wording\n• Sources quoted on one side only"},
	{"political perspective", "• Center, leaning slightly left"},
	{"alternative sources", "• [Reuters](https://www.reuters.com)\n• [AP News](https://apnews.com)"},
	{"Summarize the article", "• 📰 Main event described\n• 🧑‍⚖️ Officials respond\n• 📈 Outlook uncertain"},
	{"main narrative", "• Conflict framing between two parties"},
	{"tone and any ideological bias", "• Measured tone\n• Mild ideological slant"},
	{"missing or underrepresented", "• Opposing expert views\n• Historical context"},
	{"two other viewpoints", "• Economic angle\n• Local community angle"},
	{"misinterpreted or weaponized", "• Headline could be quoted out of context"},
}

func answer(prompt string) (string, bool) {
	i := strings.LastIndex(prompt, "TASK:")
	if i < 0 {
		return "", false
	}
	task := prompt[i:]
	for _, c := range cannedAnswers {
		if strings.Contains(task, c.match) {
			return c.reply, true
		}
	}
	return "• No notable findings", true
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "gpt-3.5-turbo"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("openai-stub stopped")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		prompt := ""
		for _, m := range req.Messages {
			if m.Role == "user" {
				prompt = m.Content
			}
		}
		content, ok := answer(prompt)
		if !ok {
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		log.Debug().Str("model", req.Model).Int("prompt_chars", len(prompt)).Msg("completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return mux
}
