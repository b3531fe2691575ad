package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/user/starwave/internal/types"
)

// ClientConfig configures the generative HTTP backend.
type ClientConfig struct {
	// CompletionsURL is an OpenAI-style chat-completions endpoint.
	CompletionsURL string
	APIKey         string
	Model          string
	HTTPClient     *http.Client
}

// Client talks to an OpenAI-compatible chat-completions endpoint and parses
// the model output as strict JSON. Any transport or parse failure is returned
// as an error; Resilient turns those into fallbacks.
type Client struct {
	cfg ClientConfig
}

var _ Oracle = (*Client)(nil)

// NewClient builds an oracle backed by a chat-completions endpoint.
func NewClient(cfg ClientConfig) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.CompletionsURL) == "" {
		cfg.CompletionsURL = "https://api.openai.com/v1/chat/completions"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &Client{cfg: cfg}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are the narrative engine of a music-career simulation game. Always answer with exactly the JSON object requested, no markdown, no prose around it."

// complete performs one chat completion and returns the raw model output.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// completeJSON runs a completion and unmarshals the model output into out.
func (c *Client) completeJSON(ctx context.Context, prompt string, out any) error {
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	return nil
}

func (c *Client) Lyrics(ctx context.Context, title, genre string) (string, error) {
	var out struct {
		Lyrics string `json:"lyrics"`
	}
	prompt := fmt.Sprintf(`Write short song lyrics (a verse and a chorus) for a %s track titled %q. Respond as {"lyrics": "..."}.`, genre, title)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Lyrics) == "" {
		return "", fmt.Errorf("model returned empty lyrics")
	}
	return out.Lyrics, nil
}

func (c *Client) TrendingTopics(ctx context.Context) ([]string, error) {
	var out struct {
		Topics []string `json:"topics"`
	}
	prompt := `Invent 5 music-adjacent social media trending hashtags. Respond as {"topics": ["#...", ...]}.`
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Topics) < 5 {
		return nil, fmt.Errorf("model returned %d topics, want 5", len(out.Topics))
	}
	return out.Topics[:5], nil
}

func (c *Client) SponsorOffer(ctx context.Context, fame int64) (types.SponsoredOffer, error) {
	var out struct {
		Brand           string  `json:"brand"`
		Payout          float64 `json:"payout"`
		Requirement     string  `json:"requirement"`
		CharismaPenalty int     `json:"charisma_penalty"`
	}
	prompt := fmt.Sprintf(`Invent a brand sponsorship offer for a music artist with fame score %d. Payout should scale with fame. Respond as {"brand": "...", "payout": 0, "requirement": "...", "charisma_penalty": 1}.`, fame)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return types.SponsoredOffer{}, err
	}
	if out.Brand == "" || out.Payout <= 0 {
		return types.SponsoredOffer{}, fmt.Errorf("model returned malformed offer")
	}
	if out.CharismaPenalty < 1 {
		out.CharismaPenalty = 1
	}
	if out.CharismaPenalty > 10 {
		out.CharismaPenalty = 10
	}
	return types.SponsoredOffer{
		Brand:           out.Brand,
		Payout:          out.Payout,
		Requirement:     out.Requirement,
		CharismaPenalty: out.CharismaPenalty,
	}, nil
}

func (c *Client) Headline(ctx context.Context, artist, event string) (string, error) {
	var out struct {
		Headline string `json:"headline"`
	}
	prompt := fmt.Sprintf(`Write one short music-industry news headline about artist %q and this event: %s. Respond as {"headline": "..."}.`, artist, event)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Headline) == "" {
		return "", fmt.Errorf("model returned empty headline")
	}
	return out.Headline, nil
}

func (c *Client) Engagement(ctx context.Context, artist, content string, platform types.Platform) ([]types.Comment, error) {
	var out struct {
		Comments []types.Comment `json:"comments"`
	}
	prompt := fmt.Sprintf(`Artist %q posted this on %s: %q. Write up to 3 fan comments. Respond as {"comments": [{"user": "...", "text": "..."}]}.`, artist, platform, content)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Comments) > 3 {
		out.Comments = out.Comments[:3]
	}
	return out.Comments, nil
}

func (c *Client) EstimateSongImpact(ctx context.Context, title string, quality int, fans int64, genre string) (SongImpact, error) {
	var out SongImpact
	prompt := fmt.Sprintf(`A %s song titled %q with quality %d/100 was just released by an artist with %d fans. Estimate the fan gain and write one sentence of reception. Respond as {"fan_gain": 0, "reception": "..."}.`, genre, title, quality, fans)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return SongImpact{}, err
	}
	if out.FanGain < 0 {
		return SongImpact{}, fmt.Errorf("model returned negative fan gain")
	}
	return out, nil
}

func (c *Client) Thumbnail(ctx context.Context, title, artist, genre string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	prompt := fmt.Sprintf(`Produce cover art for the %s single %q by %q and respond with its URL as {"url": "..."}.`, genre, title, artist)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) FanInteraction(ctx context.Context, artist, content string) (*types.FanInteraction, error) {
	var out types.FanInteraction
	prompt := fmt.Sprintf(`Artist %q just had a strong release: %q. Script a direct fan interaction with exactly 3 reply options. bonus_type is one of fans, fame, streams. Respond as {"username": "...", "message": "...", "options": [{"label": "...", "result": "...", "bonus_type": "fans", "bonus_value": 0}]}.`, artist, content)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Options) != 3 {
		return nil, fmt.Errorf("model returned %d interaction options, want 3", len(out.Options))
	}
	return &out, nil
}

func (c *Client) CareerSummary(ctx context.Context, snap Snapshot) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	prompt := fmt.Sprintf(`Summarize this music career in one sentence: stage name %q, genre %s, %d fans, fame %d, %d songs, %d awards. Respond as {"summary": "..."}.`,
		snap.StageName, snap.Genre, snap.Fans, snap.Fame, snap.SongCount, snap.AwardCount)
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", fmt.Errorf("model returned empty summary")
	}
	return out.Summary, nil
}
