package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"homeguard/pkg/config"
)

// GeminiService is the text-generation oracle. Callers treat any returned
// error as "oracle unavailable" for that call only, never permanently.
type GeminiService struct {
	apiKey  string
	enabled bool
}

var (
	ErrGeminiDisabled = errors.New("gemini is disabled via config")
)

func NewGeminiService() *GeminiService {
	return &GeminiService{
		apiKey:  config.GeminiAPIKey,
		enabled: config.IsGeminiEnabled,
	}
}

// Available reports whether the oracle is configured at all. Individual calls
// may still fail; Available==false means every call would.
func (s *GeminiService) Available() bool {
	return s.enabled && strings.TrimSpace(s.apiKey) != ""
}

// Generate sends one prompt and returns the oracle's free-text reply.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.enabled {
		log.Printf("[oracle] disabled via config (IS_GEMINI_ENABLED=0)")
		return "", ErrGeminiDisabled
	}
	if strings.TrimSpace(s.apiKey) == "" {
		log.Printf("[oracle] GEMINI_API_KEY is not set")
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}

	models := []string{config.GeminiModel, "gemini-2.0-flash"}
	tried := make(map[string]error)

	for _, m := range models {
		if strings.TrimSpace(m) == "" {
			continue
		}
		text, err := s.callGenerateContent(ctx, m, prompt)
		if err != nil && isRetriable(err) {
			sleepWithContext(ctx, 2*time.Second)
			text, err = s.callGenerateContent(ctx, m, prompt)
		}
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err != nil {
			tried[m] = err
			log.Printf("[oracle] model %s failed: %v", m, err)
		}
	}

	var b strings.Builder
	b.WriteString("all gemini models failed: ")
	first := true
	for m, e := range tried {
		if !first {
			b.WriteString("; ")
		}
		first = false
		b.WriteString(fmt.Sprintf("%s -> %v", m, e))
	}
	return "", errors.New(b.String())
}

func (s *GeminiService) callGenerateContent(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []any{
			map[string]any{
				"role":  "user",
				"parts": []any{map[string]any{"text": prompt}},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.6,
			"maxOutputTokens": 1024,
			"topK":            40,
			"topP":            0.9,
		},
	}
	bodyBytes, _ := json.Marshal(reqBody)

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, s.apiKey)
	log.Printf("[oracle] using model %s", model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return strings.TrimSpace(string(respBytes)), nil
	}
	if cands, ok := parsed["candidates"].([]any); ok && len(cands) > 0 {
		if first, ok := cands[0].(map[string]any); ok {
			if content, ok := first["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok {
					for _, p := range parts {
						if pm, ok := p.(map[string]any); ok {
							if txt, ok := pm["text"].(string); ok && strings.TrimSpace(txt) != "" {
								return txt, nil
							}
						}
					}
				}
			}
		}
	}
	return strings.TrimSpace(string(respBytes)), nil
}

func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	e := strings.ToLower(err.Error())
	if strings.Contains(e, "status 503") || strings.Contains(e, "unavailable") {
		return true
	}
	if strings.Contains(e, "status 429") || strings.Contains(e, "resource_exhausted") || strings.Contains(e, "quota") {
		return true
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
