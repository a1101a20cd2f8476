package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Provider issues single chat-completion requests to one backend. It is
// stateless across calls; one Complete is one HTTP attempt with no retry.
type Provider struct {
	name                string
	baseURL             string
	chatCompletionsPath string
	apiKey              string
	model               string
	maxTokens           int
	timeout             time.Duration
	extraHeaders        map[string]string

	httpClient *http.Client
}

func NewProvider(cfg ProviderConfig) (*Provider, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("inference: base_url required")
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, errors.New("inference: provider name required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("inference: model required")
	}

	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/v1/chat/completions"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Provider{
		name:                name,
		baseURL:             baseURL,
		chatCompletionsPath: chatPath,
		apiKey:              strings.TrimSpace(cfg.APIKey),
		model:               model,
		maxTokens:           maxTokens,
		timeout:             timeout,
		extraHeaders:        cfg.ExtraHeaders,
		httpClient:          &http.Client{Transport: tr},
	}, nil
}

// NewProviderWithHTTPClient is intended for tests; it avoids network access
// by using a custom RoundTripper.
func NewProviderWithHTTPClient(cfg ProviderConfig, httpClient *http.Client) (*Provider, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		p.httpClient = httpClient
	}
	return p, nil
}

func (p *Provider) Name() string { return p.name }

// Configured reports whether the provider has a credential and can be tried.
func (p *Provider) Configured() bool { return p.apiKey != "" }

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and returns the trimmed
// generated text. An empty completion counts as a failure.
func (p *Provider) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if !p.Configured() {
		return "", ErrNoCredential
	}
	msgs := cleanMessages(messages)
	if len(msgs) == 0 {
		return "", errors.New("no messages")
	}

	reqBody := chatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   p.maxTokens,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", err
	}

	ctx2, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, p.baseURL+p.chatCompletionsPath, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}

	text := strings.TrimSpace(extractChatText(out))
	if text == "" {
		return "", errors.New("empty upstream completion")
	}
	return text, nil
}

func cleanMessages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, Message{Role: role, Content: content})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}
