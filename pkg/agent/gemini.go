package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"tripcrew/internal/pipeline"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiAgent answers stage invocations with a Gemini model, resolving
// web_search function calls through its Searcher.
type GeminiAgent struct {
	client       *genai.Client
	model        string
	search       Searcher
	limiter      *rate.Limiter
	maxToolCalls int
	logger       *zap.Logger
}

func NewGeminiAgent(ctx context.Context, apiKey, model string, search Searcher, opts ...Option) (*GeminiAgent, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s := applyOptions(opts)
	return &GeminiAgent{
		client:       client,
		model:        model,
		search:       search,
		limiter:      newLimiter(s.maxRPM),
		maxToolCalls: s.maxToolCalls,
		logger:       s.logger,
	}, nil
}

func (a *GeminiAgent) Invoke(ctx context.Context, inv pipeline.Invocation) (string, error) {
	m := a.client.GenerativeModel(a.model)
	m.SetTemperature(0)
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(inv)))
	if inv.UseSearch && a.search != nil {
		m.Tools = []*genai.Tool{geminiSearchTool()}
	}

	chat := m.StartChat()
	if err := waitTurn(ctx, a.limiter); err != nil {
		return "", err
	}
	resp, err := chat.SendMessage(ctx, genai.Text(taskPrompt(inv)))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	toolCalls := 0
	for round := 0; ; round++ {
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", errors.New("gemini: no content generated")
		}
		calls := resp.Candidates[0].FunctionCalls()
		if len(calls) == 0 {
			break
		}
		if round > a.maxToolCalls {
			return "", errors.New("gemini: model kept calling tools without answering")
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			replies = append(replies, genai.FunctionResponse{
				Name:     call.Name,
				Response: a.answerCall(ctx, call, &toolCalls),
			})
		}

		if err := waitTurn(ctx, a.limiter); err != nil {
			return "", err
		}
		resp, err = chat.SendMessage(ctx, replies...)
		if err != nil {
			return "", fmt.Errorf("gemini: %w", err)
		}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", errors.New("gemini: empty answer")
	}
	return out.String(), nil
}

func (a *GeminiAgent) answerCall(ctx context.Context, call genai.FunctionCall, used *int) map[string]any {
	if call.Name != searchToolName {
		return map[string]any{"error": "unknown tool " + call.Name}
	}
	if *used >= a.maxToolCalls {
		return searchExhausted
	}
	*used++

	query, _ := call.Args["query"].(string)
	a.logger.Debug("web search", zap.String("provider", "gemini"), zap.String("query", query))
	return searchPayload(a.search.Search(ctx, query))
}

func (a *GeminiAgent) Close() error {
	return a.client.Close()
}

func geminiSearchTool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        searchToolName,
			Description: searchToolDescription,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "The search query.",
					},
				},
				Required: []string{"query"},
			},
		}},
	}
}
