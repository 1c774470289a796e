package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// ErrMalformedResponse は AI の応答が期待する構造に変換できないときのエラーです。
var ErrMalformedResponse = errors.New("malformed response")

var (
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")
	thinkRegex     = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// ExtractJSON は AI の応答から JSON 部分を取り出します。
// コードブロックを優先し、次に最も外側の {...} または [...]、最後に全体を返します。
// 括弧の種類は先に現れた方で決めます。
func ExtractJSON(raw string) string {
	raw = cleanResponse(raw)
	if block, ok := codeBlock(raw); ok {
		return block
	}
	obj := strings.Index(raw, "{")
	arr := strings.Index(raw, "[")
	return outermost(raw, arr != -1 && (obj == -1 || arr < obj))
}

// extractJSONAs は期待する形が配列かオブジェクトかが分かっているときの ExtractJSON です。
func extractJSONAs(raw string, array bool) string {
	raw = cleanResponse(raw)
	if block, ok := codeBlock(raw); ok {
		return block
	}
	return outermost(raw, array)
}

func cleanResponse(raw string) string {
	return strings.TrimSpace(thinkRegex.ReplaceAllString(raw, ""))
}

func codeBlock(raw string) (string, bool) {
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return strings.TrimSpace(matches[1]), true
	}
	return "", false
}

// outermost は最も外側の括弧で囲まれた範囲を返します。見つからなければ raw のままです。
func outermost(raw string, array bool) string {
	openCh, closeCh := "{", "}"
	if array {
		openCh, closeCh = "[", "]"
	}
	first := strings.Index(raw, openCh)
	last := strings.LastIndex(raw, closeCh)
	if first != -1 && last != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

// Decode は応答から JSON を取り出して T にデコードします。
// T がスライスなら [...]、それ以外なら {...} を探します。
// 失敗時は ErrMalformedResponse でラップしたエラーを返します。
func Decode[T any](raw string) (T, error) {
	var v T
	if strings.TrimSpace(raw) == "" {
		return v, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	kind := reflect.TypeFor[T]().Kind()
	payload := extractJSONAs(raw, kind == reflect.Slice || kind == reflect.Array)
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return v, fmt.Errorf("%w: AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", ErrMalformedResponse, truncateString(raw, 200), err)
	}
	return v, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
