package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shouni/go-picturebook-kit/pkg/ai"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"

	"golang.org/x/sync/errgroup"
)

// PlanScenes は物語から最大 MaxScenes 件の場面を選びます。
// 応答が場面のリストとして解析できない場合は段落から場面を作り、2番目の戻り値が true になります。
func (sc *StoryComposer) PlanScenes(ctx context.Context, story string) ([]domain.Scene, bool) {
	scenes, err := sc.planScenes(ctx, story)
	if err != nil {
		logFallback(ctx, "scene_plan", err)
		return FallbackScenes(story, sc.Config.MaxScenes), true
	}
	return scenes, false
}

func (sc *StoryComposer) planScenes(ctx context.Context, story string) ([]domain.Scene, error) {
	maxScenes := sc.Config.MaxScenes
	prompt, err := sc.Prompts.Build(prompts.ModeScenePlan, prompts.ScenePlanData{
		MaxScenes: maxScenes,
		StoryText: story,
	})
	if err != nil {
		return nil, err
	}

	raw, err := sc.Text.GenerateText(ctx, prompt, jsonOptions(sc.Config.Stages.ScenePlan, nil, ""))
	if err != nil {
		return nil, fmt.Errorf("場面抽出の生成に失敗しました: %w", err)
	}

	scenes, err := parser.Decode[[]domain.Scene](raw)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: scene list is empty", parser.ErrMalformedResponse)
	}
	if len(scenes) > maxScenes {
		scenes = scenes[:maxScenes]
	}
	for i := range scenes {
		if scenes[i].SceneID <= 0 {
			scenes[i].SceneID = i + 1
		}
	}
	return scenes, nil
}

// FallbackScenes は空行で区切った段落から場面を作ります。
// 30文字を超え、終端行を含まない段落だけを先頭から maxScenes 件まで使います。
func FallbackScenes(story string, maxScenes int) []domain.Scene {
	var scenes []domain.Scene
	for _, p := range splitParagraphs(story) {
		if len(scenes) >= maxScenes {
			break
		}
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) <= minSceneParagraphLength || strings.Contains(p, "The End") {
			continue
		}
		id := len(scenes) + 1
		scenes = append(scenes, domain.Scene{
			SceneID:              id,
			ShortTitle:           fmt.Sprintf("%s %d", fallbackScenePrefix, id),
			FullSceneDescription: p,
			EmotionalTone:        fallbackSceneTone,
			PageRole:             domain.PageRoleBuildUp,
		})
	}
	return scenes
}

// SummarizeScene は場面の説明を BriefMaxWords 語以内の視覚的な要約にします。
// 失敗した場合は説明を 1語あたり6文字の目安で切り詰めたものを返します。
func (sc *StoryComposer) SummarizeScene(ctx context.Context, description string) (string, bool) {
	maxWords := sc.Config.BriefMaxWords
	brief, err := sc.summarizeScene(ctx, description, maxWords)
	if err != nil {
		logFallback(ctx, "scene_summary", err)
		return truncateRunes(description, maxWords*briefCharsPerWord), true
	}
	return brief, false
}

func (sc *StoryComposer) summarizeScene(ctx context.Context, description string, maxWords int) (string, error) {
	prompt, err := sc.Prompts.Build(prompts.ModeSceneSummary, prompts.SceneSummaryData{
		MaxWords:    maxWords,
		Description: description,
	})
	if err != nil {
		return "", err
	}

	brief, err := sc.Text.GenerateText(ctx, prompt, textOptions(sc.Config.Stages.SceneSummary))
	if err != nil {
		return "", fmt.Errorf("場面要約の生成に失敗しました: %w", err)
	}
	brief = strings.TrimSpace(brief)
	if brief == "" {
		return "", fmt.Errorf("%w: empty scene summary", parser.ErrMalformedResponse)
	}
	return brief, nil
}

// Illustrate は場面ごとに要約と画像生成を並列で行い、場面と同じ順序で参照を返します。
// 画像は runID ごとの名前空間 (runID/scene_N) に保存されるため、別のリクエストの画像を上書きしません。
// 失敗した場面だけが FallbackImage に置き換わり、他の場面には影響しません。
// 2番目の戻り値は代替画像になった場面の数です。
// ワーカー内のパニックは全ての場面が終わった後に呼び出し元のゴルーチンで再送出されます。
func (sc *StoryComposer) Illustrate(ctx context.Context, runID string, scenes []domain.Scene, character domain.CharacterProfile) ([]string, int) {
	images := make([]string, len(scenes))
	failed := make([]bool, len(scenes))
	eg, egCtx := errgroup.WithContext(ctx)

	var (
		panicOnce sync.Once
		panicVal  any
	)
	for i, scene := range scenes {
		eg.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					panicOnce.Do(func() { panicVal = rec })
					images[i] = sc.Config.FallbackImage
					failed[i] = true
				}
			}()
			ref, err := sc.renderScene(egCtx, i, sceneFileName(runID, i), scene, character)
			if err != nil {
				slog.WarnContext(egCtx, "Scene illustration fell back to placeholder",
					"scene_index", i+1, "page_role", scene.PageRole, "error", err)
				ref = sc.Config.FallbackImage
				failed[i] = true
			}
			images[i] = ref
			return nil
		})
	}
	_ = eg.Wait()
	if panicVal != nil {
		panic(panicVal)
	}

	fallbacks := 0
	for _, f := range failed {
		if f {
			fallbacks++
		}
	}
	return images, fallbacks
}

// sceneFileName は保存先のファイル名のヒント (拡張子なし) を返します。
func sceneFileName(runID string, index int) string {
	name := fmt.Sprintf("scene_%d", index+1)
	if runID == "" {
		return name
	}
	return path.Join(runID, name)
}

// renderScene は1場面分の要約・プロンプト構築・画像生成を行います。
func (sc *StoryComposer) renderScene(ctx context.Context, index int, name string, scene domain.Scene, character domain.CharacterProfile) (string, error) {
	description := scene.FullSceneDescription
	if strings.TrimSpace(description) == "" {
		description = scene.ShortTitle
	}
	brief, _ := sc.SummarizeScene(ctx, description)
	prompt := sc.ImagePrompts.BuildScene(scene, character.LockedCanonicalDescription, brief)

	if err := sc.RateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	logger := slog.With("scene_index", index+1, "page_role", scene.PageRole)
	logger.Info("Starting scene illustration")
	startTime := time.Now()

	seed := character.Seed
	ref, err := sc.Image.GenerateImage(ctx, prompt, ai.ImageOptions{
		Size: sc.Config.ImageSize,
		Seed: &seed,
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("scene %d illustration failed: %w", index+1, err)
	}
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("scene %d illustration returned empty reference: %w", index+1, ai.ErrGeneration)
	}

	logger.Info("Scene illustration completed", "duration", time.Since(startTime).Round(time.Millisecond))
	return ref, nil
}
