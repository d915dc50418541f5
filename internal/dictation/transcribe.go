// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dictation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/healthmate-tui/internal/config"
	"github.com/jeranaias/healthmate-tui/internal/util"
)

// Transcriber turns recorded audio into text through a Whisper-compatible
// HTTP endpoint.
type Transcriber struct {
	URL      string
	APIKey   string
	Model    string
	Language string

	httpClient *http.Client
}

// NewTranscriber builds a transcriber from the dictation config.
func NewTranscriber(cfg config.DictationConfig) *Transcriber {
	return &Transcriber{
		URL:        cfg.TranscribeURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Language:   cfg.Language,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// whisperLanguage reduces a locale tag such as "en-US" to the ISO-639-1 code
// Whisper expects.
func whisperLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

// Transcribe uploads audio as a multipart form and returns the recognised
// text, NFC-normalised and trimmed.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	partHeader.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}

	if t.Model != "" {
		_ = writer.WriteField("model", t.Model)
	}
	_ = writer.WriteField("response_format", "json")
	if lang := whisperLanguage(t.Language); lang != "" {
		_ = writer.WriteField("language", lang)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.APIKey)
	}

	client := t.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("network: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	log.Debug().Int("status", resp.StatusCode).Int("body_len", len(body)).Msg("transcription response")

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription failed: status %d: %s", resp.StatusCode, util.TruncateWidth(string(body), 200))
	}

	text, err := parseTranscript(body)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(text), nil
}

// parseTranscript reads the top-level "text" field, falling back to joining
// "segments" when the text is empty.
func parseTranscript(body []byte) (string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid transcription JSON: %w", err)
	}

	if textRaw, ok := raw["text"]; ok {
		var text string
		if err := json.Unmarshal(textRaw, &text); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
	}

	if segRaw, ok := raw["segments"]; ok {
		var segments []struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(segRaw, &segments); err == nil {
			var parts []string
			for _, seg := range segments {
				if s := strings.TrimSpace(seg.Text); s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, " "), nil
			}
		}
	}

	return "", ErrNoSpeech
}
