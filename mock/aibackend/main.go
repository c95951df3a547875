package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

//go:embed analysis.json
var analysisContent []byte

//go:embed tags.json
var tagsContent []byte

// chatResponse mirrors the chat-completions wire shape just enough for
// the client to parse.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func completion(content []byte) []byte {
	var resp chatResponse
	resp.Choices = make([]struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	resp.Choices[0].Message.Role = "assistant"
	resp.Choices[0].Message.Content = string(content)

	out, _ := json.Marshal(resp)

	return out
}

func main() {
	http.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		// Simulate model latency (100-400ms)
		time.Sleep(time.Duration(100+time.Now().UnixNano()%300) * time.Millisecond)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":{"message":%q}}`, err.Error()), http.StatusBadRequest)

			return
		}

		// Analysis prompts ask for a "summary" field; tagging prompts
		// do not.
		content := tagsContent
		if bytes.Contains(body, []byte("summary")) {
			content = analysisContent
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(completion(content)); err != nil {
			log.Printf("[AI Backend] Write error: %v", err)
		}

		log.Printf("[AI Backend] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[AI Backend] Health write error: %v", err)
		}
	})

	log.Println("Mock AI backend running on :8091")
	server := &http.Server{
		Addr:         ":8091",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
