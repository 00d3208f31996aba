// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/SmileyChris/faker-news/pkg/types"
)

// dashScopeBaseURL is DashScope's OpenAI-compatible endpoint.
const dashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

const defaultMaxRetries = 3

// providerDefaults maps each provider to its default chat model.
var providerDefaults = map[types.GeneratorProvider]string{
	types.ProviderOpenAI:    "gpt-4o-mini",
	types.ProviderDashScope: "qwen-plus",
}

// Client implements Generator using the openai-go chat completions API.
// DashScope is served by the same client through its compatible endpoint.
type Client struct {
	model string
	opts  []option.RequestOption
}

// NewClient builds a Client from cfg. The provider defaults to openai;
// model and base URL fall back to provider defaults when unset.
func NewClient(cfg types.GeneratorConfig) (*Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = types.ProviderOpenAI
	}
	model, ok := providerDefaults[provider]
	if !ok {
		return nil, fmt.Errorf("unknown generator provider %q", provider)
	}
	if cfg.Model != "" {
		model = cfg.Model
	}
	if cfg.APIKey == "" {
		return nil, errors.New("generator api key missing")
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(retries),
	}
	baseURL := cfg.BaseURL
	if baseURL == "" && provider == types.ProviderDashScope {
		baseURL = dashScopeBaseURL
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{model: model, opts: opts}, nil
}

// Headlines requests n fresh headlines.
func (c *Client) Headlines(ctx context.Context, n int) ([]string, error) {
	prompt, err := headlinesPrompt(n)
	if err != nil {
		return nil, err
	}
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating headlines: %w", err)
	}
	items := parseLines(raw, n)
	if len(items) == 0 {
		return nil, errors.New("generating headlines: empty response")
	}
	return items, nil
}

// Intros requests one lede per headline, positionally aligned.
func (c *Client) Intros(ctx context.Context, headlines []string) ([]string, error) {
	if len(headlines) == 0 {
		return nil, nil
	}
	prompt, err := introsPrompt(headlines)
	if err != nil {
		return nil, err
	}
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating intros: %w", err)
	}
	items := parseLines(raw, len(headlines))
	if len(items) == 0 {
		return nil, errors.New("generating intros: empty response")
	}
	return items, nil
}

// Articles requests one article per headline, positionally aligned.
func (c *Client) Articles(ctx context.Context, headlines []string, wordTarget int) ([]string, error) {
	if len(headlines) == 0 {
		return nil, nil
	}
	prompt, err := articlesPrompt(headlines, wordTarget)
	if err != nil {
		return nil, err
	}
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating articles: %w", err)
	}
	items := parseBlocks(raw, len(headlines))
	if len(items) == 0 {
		return nil, errors.New("generating articles: empty response")
	}
	return items, nil
}

func (c *Client) complete(ctx context.Context, user string) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
