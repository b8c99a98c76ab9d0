package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/jitter"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
)

// Embedder — клиент OpenAI-совместимого сервиса векторизации текста.
// Размерность ответов сверяется с настройкой: вектор другой длины
// означает рассинхронизацию модели и индекса.
type Embedder struct {
	cfg    *cfg.EmbedderCfg
	client *http.Client
	logger logger.Logger
}

func NewEmbedder(cfg *cfg.EmbedderCfg, logger logger.Logger) *Embedder {
	return &Embedder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Embed векторизует один текст с retry-логикой и экспоненциальной задержкой.
func (em *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	const (
		op         = "Embedder.Embed"
		baseJitter = 500 * time.Millisecond
		maxJitter  = 10 * time.Second
	)

	if text == "" {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	var lastErr error
	for attempt := 0; attempt < em.cfg.MaxRetries; attempt++ {
		vector, err := em.embedOnce(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if attempt == em.cfg.MaxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		em.logger.Warnf("embedding failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", em.cfg.MaxRetries, lastErr))
}

// EmbedBatch векторизует батч текстов параллельно с ограничением
// конкурентности. Порядок результатов совпадает с порядком текстов.
func (em *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	const op = "Embedder.EmbedBatch"

	vectors := make([][]float32, len(texts))
	errCh := make(chan error, len(texts))
	sem := make(chan struct{}, em.cfg.MaxConcurrent)

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vector, err := em.Embed(ctx, text)
			if err != nil {
				errCh <- err
				return
			}

			vectors[i] = vector
		}()
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, e.Wrap(op, err)
	}

	return vectors, nil
}

// embedOnce выполняет один запрос к /embeddings без повторов.
func (em *Embedder) embedOnce(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{
		Input: text,
		Model: em.cfg.Model,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/embeddings", em.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if em.cfg.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+em.cfg.ApiKey)
	}

	resp, err := em.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out embedResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}

	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, e.ErrEmptyVector
	}

	vector := out.Data[0].Embedding
	if uint64(len(vector)) != em.cfg.Dimension {
		return nil, fmt.Errorf("expected dimension %d, got %d: %w", em.cfg.Dimension, len(vector), e.ErrVectorSizeMismatch)
	}

	return vector, nil
}

type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}
