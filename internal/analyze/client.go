// Package analyze summarizes web pages into post drafts and classifies
// post content using an OpenAI-compatible chat completion API.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hyunsol/techtalk/internal/models"
	"github.com/hyunsol/techtalk/internal/preview"
)

const (
	// DefaultBaseURL points at the OpenAI API; any compatible server works.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-3.5-turbo"

	maxPageChars = 8000
)

// Client talks to the completion API and fetches pages for analysis.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client

	fetcher *preview.Fetcher
}

// NewClient creates an analysis client.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		fetcher:    preview.NewFetcher(nil, 10*time.Second, preview.DefaultUserAgent),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("analyze: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("analyze: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze: completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analyze: completion status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("analyze: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("analyze: empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

// AnalyzeURL fetches the page at rawurl, strips it to text, and asks the
// model for {title, summary[], tags[]}. An unparseable model reply
// degrades to a placeholder result instead of failing.
func (c *Client) AnalyzeURL(ctx context.Context, rawurl string) (*models.URLAnalysis, error) {
	page, err := c.fetchPageText(ctx, rawurl)
	if err != nil {
		return nil, err
	}

	reply, err := c.complete(ctx,
		"당신은 웹페이지 내용을 분석하고 요약하는 전문가입니다. 항상 JSON 형식으로 응답하세요.",
		summarizePrompt(rawurl, page), 0.3, 500)
	if err != nil {
		return nil, err
	}

	cleaned := fixJSONNewlines(stripCodeFences(reply))
	var out models.URLAnalysis
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return &models.URLAnalysis{
			URL:     rawurl,
			Title:   "제목 추출 실패",
			Summary: []string{"요약을 생성할 수 없습니다."},
			Tags:    []string{},
		}, nil
	}
	out.URL = rawurl
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return &out, nil
}

// ClassifyPost asks the model whether content is a tech-related post.
// Any reply other than "true" counts as negative.
func (c *Client) ClassifyPost(ctx context.Context, content string) (bool, error) {
	reply, err := c.complete(ctx,
		"당신은 기술 관련 글을 분류하는 전문가입니다. 반드시 'true' 또는 'false'로만 답하세요.",
		classifyPrompt(content), 0, 5)
	if err != nil {
		return false, err
	}
	result := strings.ToLower(strings.TrimSpace(reply))
	result = strings.NewReplacer("\n", "", `"`, "", "'", "").Replace(result)
	return result == "true", nil
}

func (c *Client) fetchPageText(ctx context.Context, rawurl string) (string, error) {
	raw, err := c.fetcher.FetchRaw(ctx, rawurl)
	if err != nil {
		return "", err
	}
	text := HTMLToText(raw)
	// truncate in characters so a multibyte sequence is never cut open
	if r := []rune(text); len(r) > maxPageChars {
		text = string(r[:maxPageChars])
	}
	return text, nil
}

// stripCodeFences removes a surrounding ``` block from a model reply.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
