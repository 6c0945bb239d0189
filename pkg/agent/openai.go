package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tripcrew/internal/pipeline"
)

const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIAgent answers stage invocations through the chat completions API
// with web_search exposed as a function tool.
type OpenAIAgent struct {
	client       *openai.Client
	model        string
	search       Searcher
	limiter      *rate.Limiter
	maxToolCalls int
	logger       *zap.Logger
}

func NewOpenAIAgent(client *openai.Client, model string, search Searcher, opts ...Option) *OpenAIAgent {
	if model == "" {
		model = DefaultOpenAIModel
	}
	s := applyOptions(opts)
	return &OpenAIAgent{
		client:       client,
		model:        model,
		search:       search,
		limiter:      newLimiter(s.maxRPM),
		maxToolCalls: s.maxToolCalls,
		logger:       s.logger,
	}
}

func (a *OpenAIAgent) Invoke(ctx context.Context, inv pipeline.Invocation) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(inv)},
			{Role: openai.ChatMessageRoleUser, Content: taskPrompt(inv)},
		},
	}
	if inv.UseSearch && a.search != nil {
		req.Tools = []openai.Tool{openAISearchTool()}
	}

	toolCalls := 0
	for round := 0; ; round++ {
		if round > a.maxToolCalls+1 {
			return "", errors.New("openai: model kept calling tools without answering")
		}
		if err := waitTurn(ctx, a.limiter); err != nil {
			return "", err
		}
		resp, err := a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("openai: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("openai: no choices returned")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			if strings.TrimSpace(msg.Content) == "" {
				return "", errors.New("openai: empty answer")
			}
			return msg.Content, nil
		}

		req.Messages = append(req.Messages, msg)
		for _, call := range msg.ToolCalls {
			payload, _ := json.Marshal(a.answerCall(ctx, call, &toolCalls))
			req.Messages = append(req.Messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}
}

func (a *OpenAIAgent) answerCall(ctx context.Context, call openai.ToolCall, used *int) map[string]any {
	if call.Function.Name != searchToolName {
		return map[string]any{"error": "unknown tool " + call.Function.Name}
	}
	if *used >= a.maxToolCalls {
		return searchExhausted
	}
	*used++

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return map[string]any{"error": "arguments must be JSON with a query field"}
	}
	a.logger.Debug("web search", zap.String("provider", "openai"), zap.String("query", args.Query))
	return searchPayload(a.search.Search(ctx, args.Query))
}

func openAISearchTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        searchToolName,
			Description: searchToolDescription,
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}
