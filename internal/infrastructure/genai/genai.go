package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/internal/usecase"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
)

// Generator — клиент OpenAI-совместимого генератора описаний.
// Генератор опционален: при любой ошибке удалённой модели операция
// деградирует до детерминированных шаблонов по категории.
type Generator struct {
	cfg    *cfg.GenAICfg
	client *http.Client
	logger logger.Logger
}

func NewGenerator(cfg *cfg.GenAICfg, logger logger.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Generate возвращает маркетинговое описание товара. При недоступности
// модели (или пустом BaseURL) всегда отвечает шаблоном, ошибки не возвращает.
func (g *Generator) Generate(ctx context.Context, req *usecase.GenerateTextReq) (string, error) {
	if g.cfg.BaseURL == "" {
		return g.fallback(req), nil
	}

	description, err := g.complete(ctx, g.buildPrompt(req))
	if err != nil {
		g.logger.Warnf("text generation failed, using fallback: %v", err)
		return g.fallback(req), nil
	}

	return description, nil
}

// complete выполняет один запрос к /chat/completions.
func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: g.cfg.Model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.8,
		MaxTokens:   150,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", g.cfg.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.cfg.ApiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.ApiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("completions request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out completionResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", err
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}

	return cleanDescription(out.Choices[0].Message.Content), nil
}

// buildPrompt собирает промпт: улучшение существующего описания либо
// генерация с нуля по карточке товара.
func (g *Generator) buildPrompt(req *usecase.GenerateTextReq) string {
	if req.Enhance && req.OriginalDescription != "" {
		return fmt.Sprintf(
			"Enhance this product description to be more engaging and marketing-focused:\n\nProduct: %s\nOriginal: %s\n\nEnhanced description:",
			req.ProductName, req.OriginalDescription,
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\nCategory: %s\n", req.ProductName, req.Category)
	if req.OriginalDescription != "" {
		fmt.Fprintf(&b, "Original description: %s\n", req.OriginalDescription)
	}
	b.WriteString("Creative marketing description:")

	return b.String()
}

// fallback выбирает детерминированный шаблон по категории товара.
func (g *Generator) fallback(req *usecase.GenerateTextReq) string {
	if req.Enhance && req.OriginalDescription != "" {
		return enhanceFallback(req.OriginalDescription)
	}

	name := req.ProductName
	switch strings.ToLower(req.Category) {
	case "sofa":
		return fmt.Sprintf("The %s is a beautifully crafted sofa that combines comfort and style. Perfect for your living room, it offers exceptional comfort and durability.", name)
	case "chair":
		return fmt.Sprintf("The %s chair features ergonomic design and premium materials. Ideal for both work and relaxation.", name)
	case "table":
		return fmt.Sprintf("The %s table is a versatile piece that combines functionality with elegant design. Perfect for dining, work, or display.", name)
	case "bed":
		return fmt.Sprintf("The %s bed provides the perfect foundation for a good night's sleep. Crafted with quality materials and attention to detail.", name)
	case "desk":
		return fmt.Sprintf("The %s desk offers a perfect workspace solution with its clean design and practical features.", name)
	case "storage":
		return fmt.Sprintf("The %s storage solution helps you organize your space efficiently while maintaining a stylish appearance.", name)
	default:
		return fmt.Sprintf("The %s is a high-quality %s that combines style and functionality. Perfect for modern homes and offices.", name, req.Category)
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

var marketingWords = []string{"premium", "elegant", "stunning", "exceptional", "beautiful", "sophisticated"}

// enhanceFallback добавляет к описанию первое маркетинговое слово,
// которого в нём ещё нет.
func enhanceFallback(original string) string {
	lower := strings.ToLower(original)
	for _, word := range marketingWords {
		if !strings.Contains(lower, word) {
			return strings.ToUpper(word[:1]) + word[1:] + " " + lower
		}
	}

	return original
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// cleanDescription нормализует пробелы и гарантирует завершающую точку.
func cleanDescription(text string) string {
	description := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if description != "" && !strings.HasSuffix(description, ".") &&
		!strings.HasSuffix(description, "!") && !strings.HasSuffix(description, "?") {
		description += "."
	}

	return description
}
