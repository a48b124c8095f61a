package services

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

const (
	minRelevanceScore = 1
	maxRelevanceScore = 10
)

var jsonFence = regexp.MustCompile("```json\\n?|\\n?```")

// SearchResult is one model ranking after validation.
type SearchResult struct {
	ChunkIndex     int    `json:"chunkIndex"`
	RelevanceScore int    `json:"relevanceScore"`
	Reason         string `json:"reason"`
}

// ParseSearchResults reads the model's JSON array. Markdown fences are
// stripped first. Anything that is not a JSON array gives nil; elements
// without a usable chunkIndex or a numeric relevanceScore are skipped.
func ParseSearchResults(content string) []SearchResult {
	cleaned := strings.TrimSpace(jsonFence.ReplaceAllString(content, ""))

	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		logger.Info("Search response is not valid JSON", zap.Error(err))
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		logger.Info("Search response is not a JSON array", zap.String("type", fmt.Sprintf("%T", raw)))
		return nil
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		if r, ok := toSearchResult(item); ok {
			results = append(results, r)
		}
	}
	return results
}

func toSearchResult(item any) (SearchResult, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return SearchResult{}, false
	}

	idx, ok := toChunkIndex(obj["chunkIndex"])
	if !ok {
		return SearchResult{}, false
	}

	score, ok := obj["relevanceScore"].(float64)
	if !ok {
		return SearchResult{}, false
	}

	return SearchResult{
		ChunkIndex:     idx,
		RelevanceScore: clampScore(score),
		Reason:         toReason(obj["reason"]),
	}, true
}

func toChunkIndex(v any) (int, bool) {
	switch idx := v.(type) {
	case float64:
		if math.IsNaN(idx) || math.IsInf(idx, 0) {
			return 0, false
		}
		return int(idx), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func clampScore(score float64) int {
	return int(math.Max(minRelevanceScore, math.Min(maxRelevanceScore, math.Trunc(score))))
}

// toReason renders any truthy value as text; falsy values become "".
func toReason(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case bool:
		if !r {
			return ""
		}
		return "true"
	case float64:
		if r == 0 {
			return ""
		}
		return strconv.FormatFloat(r, 'f', -1, 64)
	case []any:
		if len(r) == 0 {
			return ""
		}
	case map[string]any:
		if len(r) == 0 {
			return ""
		}
	}
	out, _ := json.Marshal(v)
	return string(out)
}
