package generator

import (
	"context"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// ScenePlanner は完成した物語から挿絵にする場面を選びます。
type ScenePlanner interface {
	PlanScenes(ctx context.Context, story string) ([]domain.Scene, bool)
}

// SceneIllustrator は場面ごとに挿絵を生成し、場面と同じ順序で参照を返します。
// runID は保存先をリクエストごとに分けるための識別子です。
type SceneIllustrator interface {
	Illustrate(ctx context.Context, runID string, scenes []domain.Scene, character domain.CharacterProfile) ([]string, int)
}
