package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var errEmptyResponse = errors.New("provider returned an empty response")

// Provider is an external text-generation service.
type Provider interface {
	Name() string
	Generate(ctx context.Context, message string) (string, error)
}

const geminiPrompt = `
You are a professional career counseling assistant.
Only answer questions related to careers, jobs, education, or skills.
If the user asks something unrelated, politely tell them you only handle career counseling.

User: %s
`

const openAISystemPrompt = "You are a helpful career counselor. Answer ONLY about careers, skills, education, job search, " +
	"resume tips, interview prep and professional development. If asked outside this domain, politely decline."

type GeminiProvider struct {
	llm llms.Model
}

func NewGemini(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{llm: llm}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Generate(ctx context.Context, message string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, p.llm, fmt.Sprintf(geminiPrompt, message))
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	return completion, nil
}

type OpenAIProvider struct {
	llm llms.Model
}

// NewOpenAI builds an OpenAI chat provider. baseURL may point at any
// OpenAI-compatible server.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{llm: llm}, nil
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, message string) (string, error) {
	resp, err := p.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, openAISystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, message),
		},
		llms.WithMaxTokens(300),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
