// Package llmjson decodes structured output from language-model completions.
// Models routinely wrap JSON in markdown fences or emit slightly malformed
// payloads; every decode here degrades to a defined fallback instead of
// surfacing a parse error.
package llmjson

import (
	"encoding/json"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

// StripFence removes an optional markdown code fence around text.
// A ```json fence is preferred; a bare ``` fence is the fallback.
// Text without a fence is returned trimmed.
func StripFence(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		inner := text[idx+len("```json"):]
		if end := strings.Index(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		return strings.TrimSpace(inner)
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		inner := text[idx+len("```"):]
		if end := strings.Index(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		return strings.TrimSpace(inner)
	}

	return strings.TrimSpace(text)
}

// DecodeInto strips an optional fence and unmarshals text into out.
// Malformed payloads are run through jsonrepair before giving up.
// Returns false when the text cannot be decoded at all; out is left
// untouched in that case, so callers keep their defaults.
func DecodeInto(text string, out any) bool {
	payload := StripFence(text)
	if payload == "" {
		return false
	}

	if err := json.Unmarshal([]byte(payload), out); err == nil {
		return true
	}

	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		logger.Info("completion output is not decodable JSON", zap.Error(err))
		return false
	}

	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		logger.Info("repaired completion output still failed to decode", zap.Error(err))
		return false
	}
	return true
}

// DecodeStringList decodes a JSON array of strings. A well-formed array is
// returned as decoded, even when empty; only an undecodable response
// degrades to a single-element list wrapping the raw trimmed text.
func DecodeStringList(text string) []string {
	var items []string
	if DecodeInto(text, &items) {
		if items == nil {
			items = []string{}
		}
		return items
	}
	return []string{strings.TrimSpace(text)}
}
