package ai

import (
	"strconv"
	"strings"
)

// aspectRatioFor は "1024x1024" 形式のサイズを縦横比に変換します。
func aspectRatioFor(size string) string {
	w, h, ok := parseSize(size)
	switch {
	case !ok || w == h:
		return "1:1"
	case w*3 == h*4:
		return "4:3"
	case w*4 == h*3:
		return "3:4"
	case w > h:
		return "16:9"
	default:
		return "9:16"
	}
}

func parseSize(size string) (int, int, bool) {
	ws, hs, found := strings.Cut(strings.ToLower(size), "x")
	if !found {
		return 0, 0, false
	}
	w, err1 := strconv.Atoi(strings.TrimSpace(ws))
	h, err2 := strconv.Atoi(strings.TrimSpace(hs))
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
