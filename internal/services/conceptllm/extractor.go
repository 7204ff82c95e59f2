package conceptllm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"phrasecut/internal/logging"
	"phrasecut/internal/pipeline"
	"phrasecut/internal/services/llm"
)

// DefaultBatchSize bounds how many transcript segments go into one prompt.
const DefaultBatchSize = 15

// systemPrompt instructs the model to extract idioms from speech-recognized
// text, correcting homophone errors, and to answer with bare JSON.
const systemPrompt = "你是一个精通成语的修仙文案官。你的任务是从给定的语音转录文本中提取成语。\n" +
	"由于文本是语音识别(STT)生成的，可能存在同音错别字，请结合上下文语义进行修正。\n\n" +
	"要求：\n" +
	"1. 识别文本中的所有成语。\n" +
	"2. 修正错别字（如 '落黄而逃' 修正为 '落荒而逃'）。\n" +
	"3. 严格返回以下 JSON 格式的列表，不要包含任何其他文字：\n" +
	"[{\"word\": \"修正后的成语\", \"original\": \"原始文本\", \"index\": 文本片段索引}]\n" +
	"4. 如果没有发现成语，返回空列表 []。"

// Extractor finds idioms in transcript segments using a chat-completion
// model behind an OpenAI-compatible API.
type Extractor struct {
	client    *llm.Client
	batchSize int
	logger    *slog.Logger
}

// NewExtractor wraps an LLM client. A non-positive batchSize falls back to
// DefaultBatchSize.
func NewExtractor(client *llm.Client, batchSize int, logger *slog.Logger) *Extractor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		client:    client,
		batchSize: batchSize,
		logger:    logging.NewComponentLogger(logger, "conceptllm"),
	}
}

// conceptPayload mirrors one entry of the model's JSON response.
type conceptPayload struct {
	Word     string `json:"word"`
	Original string `json:"original"`
	Index    int    `json:"index"`
}

// Extract prompts the model over the segments in batches and returns every
// recognized idiom with the transcript index it was found at. Any batch
// failure fails the whole call so the item is retried as a unit.
func (e *Extractor) Extract(ctx context.Context, segments []pipeline.Segment) ([]pipeline.Concept, error) {
	var concepts []pipeline.Concept

	for batchStart := 0; batchStart < len(segments); batchStart += e.batchSize {
		batchEnd := batchStart + e.batchSize
		if batchEnd > len(segments) {
			batchEnd = len(segments)
		}
		batch := segments[batchStart:batchEnd]

		e.logger.Debug("processing segment batch",
			logging.Int("batch_start", batchStart),
			logging.Int("batch_size", len(batch)),
		)

		content, err := e.client.CompleteJSON(ctx, systemPrompt, buildUserPrompt(batchStart, batch))
		if err != nil {
			return nil, fmt.Errorf("concept batch at segment %d: %w", batchStart, err)
		}

		var payload []conceptPayload
		if err := llm.DecodeJSON(content, &payload); err != nil {
			return nil, fmt.Errorf("concept batch at segment %d: %w", batchStart, err)
		}

		for _, entry := range payload {
			if entry.Word == "" {
				continue
			}
			if entry.Index < batchStart || entry.Index >= batchEnd {
				e.logger.Warn("model referenced segment outside batch, dropping",
					logging.String("label", entry.Word),
					logging.Int("index", entry.Index),
				)
				continue
			}
			concepts = append(concepts, pipeline.Concept{
				Label:        entry.Word,
				Original:     entry.Original,
				SegmentIndex: entry.Index,
			})
		}
	}

	e.logger.Info("concept extraction finished", logging.Int("concepts", len(concepts)))
	return concepts, nil
}

// buildUserPrompt numbers each segment with its transcript-wide index so
// the model's answers can be mapped back to timings.
func buildUserPrompt(batchStart int, batch []pipeline.Segment) string {
	var b strings.Builder
	b.WriteString("请识别以下文本中的成语：\n")
	for i, seg := range batch {
		fmt.Fprintf(&b, "[%d] %s\n", batchStart+i, seg.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
