package conceptllm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"phrasecut/internal/logging"
	"phrasecut/internal/pipeline"
	"phrasecut/internal/services/conceptllm"
	"phrasecut/internal/services/llm"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatResponse(content string) string {
	encoded, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(encoded)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *llm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return llm.NewClient(
		llm.Config{APIKey: "test", BaseURL: server.URL, Model: "test-model"},
		llm.WithSleeper(func(time.Duration) {}),
	)
}

func segments(texts ...string) []pipeline.Segment {
	segs := make([]pipeline.Segment, len(texts))
	for i, text := range texts {
		segs[i] = pipeline.Segment{Text: text, Start: float64(i * 10), End: float64(i*10 + 3)}
	}
	return segs
}

func TestExtractBatchesSegmentsWithGlobalIndexes(t *testing.T) {
	var prompts []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		user := req.Messages[len(req.Messages)-1].Content
		prompts = append(prompts, user)

		// Answer only for the batch containing segment 2.
		if strings.Contains(user, "[2]") {
			fmt.Fprint(w, chatResponse(`[{"word": "落荒而逃", "original": "落黄而逃", "index": 2}]`))
			return
		}
		fmt.Fprint(w, chatResponse(`[]`))
	})

	extractor := conceptllm.NewExtractor(client, 2, logging.NewNop())
	concepts, err := extractor.Extract(context.Background(), segments(
		"第一段", "第二段", "他落黄而逃了", "第四段", "第五段",
	))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(prompts) != 3 {
		t.Fatalf("expected 3 batches of size 2, got %d requests", len(prompts))
	}
	if !strings.Contains(prompts[0], "[0]") || !strings.Contains(prompts[0], "[1]") {
		t.Fatalf("first batch must carry indexes 0 and 1: %q", prompts[0])
	}
	if !strings.Contains(prompts[2], "[4]") {
		t.Fatalf("last batch must carry index 4: %q", prompts[2])
	}

	if len(concepts) != 1 {
		t.Fatalf("expected 1 concept, got %d", len(concepts))
	}
	got := concepts[0]
	if got.Label != "落荒而逃" || got.Original != "落黄而逃" || got.SegmentIndex != 2 {
		t.Fatalf("unexpected concept: %+v", got)
	}
}

func TestExtractDropsOutOfBatchIndexes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(`[
			{"word": "一帆风顺", "original": "一帆风顺", "index": 0},
			{"word": "无中生有", "original": "无中生有", "index": 99},
			{"word": "", "original": "", "index": 1}
		]`))
	})

	extractor := conceptllm.NewExtractor(client, 10, logging.NewNop())
	concepts, err := extractor.Extract(context.Background(), segments("一帆风顺的一年", "第二段"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(concepts) != 1 {
		t.Fatalf("expected invalid entries dropped, got %d concepts", len(concepts))
	}
	if concepts[0].Label != "一帆风顺" {
		t.Fatalf("unexpected concept: %+v", concepts[0])
	}
}

func TestExtractToleratesCodeFencedResponses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse("```json\n[{\"word\": \"画蛇添足\", \"original\": \"画蛇添足\", \"index\": 0}]\n```"))
	})

	extractor := conceptllm.NewExtractor(client, 10, logging.NewNop())
	concepts, err := extractor.Extract(context.Background(), segments("画蛇添足"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(concepts) != 1 || concepts[0].Label != "画蛇添足" {
		t.Fatalf("unexpected concepts: %+v", concepts)
	}
}

func TestExtractFailsWholeCallOnBatchError(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, chatResponse(`[]`))
			return
		}
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})
	extractor := conceptllm.NewExtractor(client, 1, logging.NewNop())
	if _, err := extractor.Extract(context.Background(), segments("第一段", "第二段")); err == nil {
		t.Fatal("expected batch failure to fail the call")
	}
}
