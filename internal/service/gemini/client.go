// Package gemini calls the Generative Language generateContent endpoint for
// scripts, images, speech and trading signals.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	xhttp "ViralGen/pkg/http"
	"ViralGen/pkg/logger"
)

var (
	ErrMissingAPIKey = errors.New("gemini: api key not configured")
	ErrNoInlineData  = errors.New("visual generation failed")
	ErrEmptyResponse = errors.New("gemini: empty response")
	ErrBlocked       = errors.New("gemini: prompt blocked")
)

const apiKeyHeader = "x-goog-api-key"

type Config struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	SpeechModel string
	Voice       string
	Timeout     time.Duration
}

type Client struct {
	cfg  Config
	http *xhttp.Client
	log  *logger.Logger
}

var (
	_ drepo.ContentGenerator = (*Client)(nil)
	_ drepo.SignalGenerator  = (*Client)(nil)
)

func New(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:  cfg,
		http: xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		log:  log.Component("gemini"),
	}
}

// HasKey reports whether a default API key is configured.
func (c *Client) HasKey() bool { return c.cfg.APIKey != "" }

// Script requests a Hook-Value-Loop script for niche as schema-constrained JSON.
func (c *Client) Script(ctx context.Context, niche models.Niche) (*models.Script, error) {
	prompt := fmt.Sprintf(`Generate a high-retention viral video script for the niche: %s.
The script MUST follow the psychological "Hook-Value-Loop" model.

Return a JSON object with:
- hook: A high-energy opening line.
- visualPrompt: Detailed cinematic description for a high-quality visual.
- narration: Short, punchy narration (max 18 words).
- title: A click-optimized title.
- description: A keyword-rich description.
- tags: 5 trending hashtags.`, niche)

	resp, err := c.generate(ctx, c.cfg.APIKey, c.cfg.TextModel, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   scriptSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var script models.Script
	if err := decodeJSON(resp.text(), &script); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if err := xhttp.ValidateStruct(ctx, &script); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return &script, nil
}

// Image renders a 9:16 visual and returns its base64 payload and MIME type.
func (c *Client) Image(ctx context.Context, prompt string) (string, string, error) {
	resp, err := c.generate(ctx, c.cfg.APIKey, c.cfg.ImageModel, generateRequest{
		Contents: []content{{Parts: []part{{
			Text: fmt.Sprintf("A cinematic vertical image for social media: %s. 9:16 aspect ratio.", prompt),
		}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: "9:16"},
		},
	})
	if err != nil {
		return "", "", err
	}

	data := resp.inline()
	if data == nil {
		return "", "", ErrNoInlineData
	}
	mime := data.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return data.Data, mime, nil
}

// Speech synthesizes text with the configured prebuilt voice. The result is
// base64 raw PCM, or "" when the response carries no audio.
func (c *Client) Speech(ctx context.Context, text string) (string, error) {
	resp, err := c.generate(ctx, c.cfg.APIKey, c.cfg.SpeechModel, generateRequest{
		Contents: []content{{Parts: []part{{Text: "Professional voiceover: " + text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: c.cfg.Voice}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if data := resp.inline(); data != nil {
		return data.Data, nil
	}
	return "", nil
}

// Signal asks for a trading signal on t. apiKey overrides the default key.
func (c *Client) Signal(ctx context.Context, apiKey string, t models.Ticker) (*models.SignalDraft, error) {
	if apiKey == "" {
		apiKey = c.cfg.APIKey
	}
	prompt := fmt.Sprintf(`ASSET: %s at %s. Move: %s%%.
Generate a trading signal and viral video hook in JSON: { "action": "LONG"|"SHORT", "entry": number, "tp": number, "sl": number, "reasoning": "string", "videoHook": "string" }`,
		t.Symbol, t.LastPrice.String(), t.PriceChangePercent.String())

	resp, err := c.generate(ctx, apiKey, c.cfg.TextModel, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   signalSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var draft models.SignalDraft
	if err := decodeJSON(resp.text(), &draft); err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}
	if err := xhttp.ValidateStruct(ctx, &draft); err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}
	return &draft, nil
}

func (c *Client) generate(ctx context.Context, apiKey, model string, req generateRequest) (*generateResponse, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	var resp generateResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), model),
		Headers: map[string]string{apiKeyHeader: apiKey},
		Body:    req,
	}, &resp)
	if err != nil {
		c.log.Warn("generateContent failed",
			logger.String("model", model),
			logger.Duration("duration_ms", time.Since(start)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%s: %w", model, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%s: %w", model, ErrEmptyResponse)
	}

	c.log.Debug("generateContent done",
		logger.String("model", model),
		logger.Duration("duration_ms", time.Since(start)),
	)
	return &resp, nil
}

// decodeJSON tolerates a fenced ```json block around the payload.
func decodeJSON(text string, dest interface{}) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(text), dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
