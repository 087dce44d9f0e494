package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const organizePrompt = `You are organizing a messy folder of files into a structured knowledge system.

Below are contents from multiple files, each introduced by a "--- FILE: name (kind) ---" delimiter. Read each file carefully and extract ALL meaningful information: summaries, comments, TODOs, action items, dates, meetings, deadlines, ideas, references.

Discover between 5 and 7 topics that cover the content; merge related categories if you find more. You decide the topic names.

Classify each piece of information:
- calendar event (has a specific date): extract date (YYYY-MM-DD), time (HH:MM or omit), title, description, source_file
- note (everything else): extract topic, content, tags, source_file

Return ONLY valid JSON, no extra text:
{
  "topics": ["..."],
  "calendar_events": [{"date": "2025-02-14", "time": "14:30", "title": "...", "description": "...", "source_file": "..."}],
  "notes": [{"topic": "...", "content": "...", "tags": ["..."], "source_file": "..."}]
}

Every item MUST carry source_file, naming the file it came from.

=== FILE CONTENTS ===

`

const describePrompt = "Briefly describe this image in 1-2 sentences. Is it a photo, screenshot, document, or something else?"

// Client wraps the Gemini API for classification, image description, and
// embeddings.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	embed  *genai.EmbeddingModel
}

// NewClient creates a Gemini client. The API key falls back to the
// GEMINI_API_KEY environment variable, the model names to GEMINI_MODEL and
// GEMINI_EMBED_MODEL.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = "gemini-2.0-flash-exp"
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2) // low temperature keeps the JSON schema stable

	embedName := os.Getenv("GEMINI_EMBED_MODEL")
	if embedName == "" {
		embedName = "gemini-embedding-001"
	}

	return &Client{
		client: client,
		model:  model,
		embed:  client.EmbeddingModel(embedName),
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Organize sends the aggregated batch in a single call and parses the
// structured response. An unparseable response is a fatal run failure; there
// are no retries.
func (c *Client) Organize(ctx context.Context, batchText string) (*Result, error) {
	prompt := organizePrompt + batchText
	slog.Info("sending batch to model", "promptChars", len(prompt))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return ParseResult(text)
}

// DescribeImage returns a short caption for an image file.
func (c *Client) DescribeImage(ctx context.Context, name string, data []byte) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if format == "jpg" {
		format = "jpeg"
	}

	resp, err := c.model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(describePrompt))
	if err != nil {
		return "", fmt.Errorf("image description failed for %s: %w", name, err)
	}
	return responseText(resp)
}

// EmbedText generates a vector for the given text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for embedding")
	}

	res, err := c.embed.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	return res.Embedding.Values, nil
}

// ParseResult extracts the JSON document from a model response, tolerating
// code fences and prose around the braces.
func ParseResult(text string) (*Result, error) {
	cleaned := cleanJSON(text)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("response is not parseable JSON: %w", err)
	}
	return &result, nil
}

func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
