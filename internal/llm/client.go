package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/config"
)

const defaultMaxTokens = 8192

// Client wraps a chat model behind a prompt-in, text-out surface.
type Client struct {
	chatModel model.BaseChatModel
}

func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{chatModel: chatModel}, nil
}

// NewWithModel lets callers inject a chat model, mainly for tests.
func NewWithModel(chatModel model.BaseChatModel) *Client {
	return &Client{chatModel: chatModel}
}

func newChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.AdvisorModel,
			MaxTokens: defaultMaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model: %w", err)
		}
		return chatModel, nil
	case "openai":
		maxTokens := defaultMaxTokens
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.AdvisorModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

// Invoke sends a system prompt plus a user prompt and returns the reply text.
func (c *Client) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msgs := []*schema.Message{}
	if strings.TrimSpace(systemPrompt) != "" {
		msgs = append(msgs, schema.SystemMessage(systemPrompt))
	}
	msgs = append(msgs, schema.UserMessage(userPrompt))
	return c.Generate(ctx, msgs)
}

func (c *Client) Generate(ctx context.Context, msgs []*schema.Message) (string, error) {
	reply, err := c.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return reply.Content, nil
}

// InvokeJSON asks the model for a JSON document matching out's shape and
// decodes the reply into out. Code fences around the payload are tolerated.
func (c *Client) InvokeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	reply, err := c.Invoke(ctx, systemPrompt, userPrompt)
	if err != nil {
		return err
	}
	payload := ExtractJSON(reply)
	if payload == "" {
		return fmt.Errorf("model reply contains no json")
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}

// ExtractJSON strips markdown code fences and surrounding prose from a model
// reply, returning the first JSON object or array it can find.
func ExtractJSON(reply string) string {
	text := strings.TrimSpace(reply)

	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	closing := byte('}')
	if text[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(text, closing)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
