// Package commentary asks an external text service for a one-line summary of a
// live match. It never fails the caller: every error collapses into Fallback.
package commentary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maxviazov/cricket-scoring-service/internal/config"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/rs/zerolog"
)

// Fallback is returned whenever commentary cannot be produced.
const Fallback = "AI insights currently unavailable."

// Payload is the request body sent to the commentary service.
type Payload struct {
	Format    model.MatchFormat `json:"format"`
	Score     string            `json:"score"`
	Overs     string            `json:"overs"`
	OnStrike  string            `json:"on_strike"`
	OffStrike string            `json:"off_strike"`
	Bowler    string            `json:"bowler"`
}

// PayloadFrom picks the commentary inputs out of a scorecard snapshot.
func PayloadFrom(s model.Snapshot) Payload {
	p := Payload{Format: s.Format, Score: s.Score, Overs: s.Overs}
	if s.Striker != nil {
		p.OnStrike = s.Striker.Name
	}
	if s.NonStriker != nil {
		p.OffStrike = s.NonStriker.Name
	}
	if s.Bowler != nil {
		p.Bowler = s.Bowler.Name
	}
	return p
}

type response struct {
	Text string `json:"text"`
}

// errPermanent marks failures a retry cannot fix.
var errPermanent = errors.New("permanent")

// Client calls the commentary endpoint over HTTP.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
	retry  retryPolicy
	logger zerolog.Logger
}

// New builds a client from config. Zero timeout and attempts fall back to 3s and 2 tries.
func New(cfg config.CommentaryConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 2
	}
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: timeout},
		retry:  newRetryPolicy(attempts, 200*time.Millisecond),
		logger: logger.With().Str("module", "commentary").Logger(),
	}
}

// Commentary returns the service's text, or Fallback on any failure.
func (c *Client) Commentary(ctx context.Context, p Payload) string {
	var text string
	var permanent error
	err := c.retry.execute(ctx, func(ctx context.Context) error {
		t, err := c.call(ctx, p)
		if errors.Is(err, errPermanent) {
			permanent = err
			return nil
		}
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err == nil {
		err = permanent
	}
	if err != nil || text == "" {
		c.logger.Warn().Err(err).Str("format", string(p.Format)).Msg("commentary unavailable, using fallback")
		return Fallback
	}
	return text
}

func (c *Client) call(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: marshal payload: %v", errPermanent, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("commentary request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("commentary status %d", resp.StatusCode)
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: commentary status %d", errPermanent, resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", errPermanent, err)
	}
	return strings.TrimSpace(out.Text), nil
}

// Nop always answers with Fallback. Used when commentary is disabled.
type Nop struct{}

func (Nop) Commentary(context.Context, Payload) string { return Fallback }
