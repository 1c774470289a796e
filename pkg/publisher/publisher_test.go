package publisher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

func sampleResult(dir string) *domain.GenerationResult {
	return &domain.GenerationResult{
		StoryText: "Maya went out.\n\nThe End.",
		Images: []string{
			filepath.Join(dir, "images", "scene_1.webp"),
			"https://cdn.example.com/scene_2.png",
		},
		Scenes: []domain.Scene{
			{SceneID: 1, ShortTitle: "Morning"},
			{SceneID: 2, ShortTitle: ""},
		},
		StoryPlan: domain.StoryPlan{Title: "Maya's Day", Moral: "Be kind."},
		Metadata:  domain.Metadata{Model: domain.ModelTag},
	}
}

func TestStorybookPublisher_Publish(t *testing.T) {
	dir := t.TempDir()
	p := NewStorybookPublisher(asset.LocalWriter{})

	got, err := p.Publish(context.Background(), sampleResult(dir), Options{
		OutputDir:   dir,
		ImageCount:  3,
		Placeholder: "/static/fallback_image.png",
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	wantRefs := []string{"images/scene_1.webp", "https://cdn.example.com/scene_2.png", "/static/fallback_image.png"}
	if diff := cmp.Diff(wantRefs, got.ImagePaths); diff != "" {
		t.Errorf("ImagePaths mismatch (-want +got):\n%s", diff)
	}

	md, err := os.ReadFile(got.MarkdownPath)
	if err != nil {
		t.Fatalf("Markdown が書き出されていません: %v", err)
	}
	for _, want := range []string{
		"# Maya's Day\n",
		"> Be kind.",
		"## Morning\n\n![Morning](images/scene_1.webp)",
		"## middle\n\n![middle](https://cdn.example.com/scene_2.png)",
		"## end\n\n![end](/static/fallback_image.png)",
		"## Story\n\nMaya went out.\n\nThe End.\n",
	} {
		if !strings.Contains(string(md), want) {
			t.Errorf("Markdown に %q が含まれていません:\n%s", want, md)
		}
	}

	raw, err := os.ReadFile(got.JSONPath)
	if err != nil {
		t.Fatalf("JSON が書き出されていません: %v", err)
	}
	var decoded domain.GenerationResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("JSON をデコードできません: %v", err)
	}
	if decoded.StoryPlan.Title != "Maya's Day" {
		t.Errorf("Title = %q", decoded.StoryPlan.Title)
	}
}

func TestPublish_NilResult(t *testing.T) {
	p := NewStorybookPublisher(asset.LocalWriter{})
	if _, err := p.Publish(context.Background(), nil, Options{OutputDir: t.TempDir()}); err == nil {
		t.Error("nil の結果はエラーになるべきです")
	}
}
