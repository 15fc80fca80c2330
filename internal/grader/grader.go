// internal/grader/grader.go
//
// Client for the external design-grading service.
//
// Responsibilities:
//   - Build a generateContent request (system prompt, prompt label, canvas
//     summary, JSON response schema) and parse the model's JSON verdict.
//   - Retry only when the service reports it is overloaded (HTTP 503), with
//     exponential backoff between attempts.
//   - Never surface an error: any other failure, or running out of
//     attempts, becomes a failing game.Verdict carrying the error text.
//
// The engine only ever sees the final Verdict.

package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

// Grader evaluates a finished canvas against an encounter prompt.
type Grader interface {
	Grade(ctx context.Context, enc game.Encounter, canvas game.Canvas) game.Verdict
}

// errOverloaded is the only retryable failure.
var errOverloaded = errors.New("503 Service Unavailable")

const systemPrompt = `You are a world-class design critic and educator. Your goal is to grade a student's UI component based on a specific prompt.
In Deckbuilding Roguelike fashion, students will use cards in a generated deck to edit the container for submission.
You MUST respond in valid JSON that adheres to the user's provided schema.

- "pass" (boolean): Did the student meet the core requirements of the prompt?
- "feedback" (string): A short, single-paragraph of constructive feedback explaining your grade. Be encouraging but clear.

Grading rules for prompts:
- Using Material Design's Design System, and general UI principles for UI/UX Design, assess how well the student made their UI component.
- Keep in mind that students may not have had the correct cards in their deck, so if a component looks loosely like a real UI component, it can pass.`

// Config configures a Client.
type Config struct {
	BaseURL      string
	Model        string
	APIKey       string
	MaxAttempts  int
	InitialDelay time.Duration
	Timeout      time.Duration
}

// Client talks to a generateContent-style HTTP endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// New builds a Client. Zero MaxAttempts means 3.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, log: log}
}

// ---- wire types ----

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction content          `json:"systemInstruction"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
	Temperature      float64        `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

var verdictSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"pass":     map[string]string{"type": "BOOLEAN"},
		"feedback": map[string]string{"type": "STRING"},
	},
	"required": []string{"pass", "feedback"},
}

// Grade calls the service. It always returns a Verdict.
func (c *Client) Grade(ctx context.Context, enc game.Encounter, canvas game.Canvas) game.Verdict {
	body, err := json.Marshal(c.request(enc, canvas))
	if err != nil {
		return failed(err)
	}

	attempt := 0
	op := func() (game.Verdict, error) {
		attempt++
		v, err := c.call(ctx, body)
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Str("encounter", enc.ID).Msg("grading attempt failed")
			if !errors.Is(err, errOverloaded) {
				return game.Verdict{}, backoff.Permanent(err)
			}
			return game.Verdict{}, err
		}
		return v, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2

	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
		backoff.WithNotify(func(err error, d time.Duration) {
			c.log.Info().Dur("delay", d).Msg("retrying grading")
		}),
	)
	if err != nil {
		return failed(err)
	}
	return v
}

func (c *Client) request(enc game.Encounter, canvas game.Canvas) generateRequest {
	query := fmt.Sprintf(`Here is the student's submission.

CHALLENGE PROMPT: %q

STUDENT'S COMPONENT STATE:
%s

Please grade this submission based on the rules in your system prompt.`, enc.Prompt, Summarize(canvas))

	return generateRequest{
		Contents:          []content{{Parts: []part{{Text: query}}}},
		SystemInstruction: content{Parts: []part{{Text: systemPrompt}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   verdictSchema,
			Temperature:      0.2,
		},
	}
}

func (c *Client) endpoint() string {
	u := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(c.cfg.Model))
	if c.cfg.APIKey != "" {
		u += "?key=" + url.QueryEscape(c.cfg.APIKey)
	}
	return u
}

// call makes one attempt.
func (c *Client) call(ctx context.Context, body []byte) (game.Verdict, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return game.Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return game.Verdict{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusServiceUnavailable {
		return game.Verdict{}, errOverloaded
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		c.log.Error().Int("status", res.StatusCode).Str("body", string(detail)).Msg("grading api error")
		return game.Verdict{}, fmt.Errorf("API Fatal Error: %d %s", res.StatusCode, http.StatusText(res.StatusCode))
	}

	var gr generateResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return game.Verdict{}, fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 || gr.Candidates[0].Content.Parts[0].Text == "" {
		return game.Verdict{}, errors.New("invalid response structure from API")
	}

	var v game.Verdict
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &v); err != nil {
		return game.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return v, nil
}

func failed(err error) game.Verdict {
	return game.Verdict{
		Pass:     false,
		Feedback: fmt.Sprintf("Error: The grading service could not evaluate this design (%s). Please try again later.", err),
	}
}

// ---- tutorial short-circuit ----

type tutorialPass struct {
	next     Grader
	feedback string
}

// WithTutorialPass wraps g so the tutorial encounter always passes with the
// given feedback and never reaches the service.
func WithTutorialPass(g Grader, feedback string) Grader {
	return tutorialPass{next: g, feedback: feedback}
}

func (t tutorialPass) Grade(ctx context.Context, enc game.Encounter, canvas game.Canvas) game.Verdict {
	if enc.Tutorial {
		return game.Verdict{Pass: true, Feedback: t.feedback}
	}
	return t.next.Grade(ctx, enc, canvas)
}

// Func adapts a function to Grader.
type Func func(ctx context.Context, enc game.Encounter, canvas game.Canvas) game.Verdict

func (f Func) Grade(ctx context.Context, enc game.Encounter, canvas game.Canvas) game.Verdict {
	return f(ctx, enc, canvas)
}
