// Package store は生成結果を保存・取得する永続化層を提供します。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	"github.com/segmentio/ksuid"
)

// ErrNotFound は指定した ID の記録が無いときに返されます。
var ErrNotFound = errors.New("story not found")

// Store は物語の記録を保存する永続化の境界です。
type Store interface {
	Save(ctx context.Context, rec StoryRecord) (string, error)
	Load(ctx context.Context, id string) (StoryRecord, error)
	List(ctx context.Context, limit int) ([]StoryRecord, error)
	Close() error
}

// ImageRecord は位置から決まる局面ラベル付きの画像参照です。
type ImageRecord struct {
	Position         int          `json:"position"`
	URL              string       `json:"url"`
	Phase            domain.Phase `json:"phase"`
	PhaseDescription string       `json:"phase_description,omitempty"`
}

// StoryRecord は1件の生成結果を保存用に平坦化したものです。
// プロファイルは中身を解釈しない JSON として保持します。
type StoryRecord struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	ModelUsed        string          `json:"model_used"`
	CulturalProfile  json.RawMessage `json:"cultural_profile"`
	CharacterProfile json.RawMessage `json:"character_profile"`
	Images           []ImageRecord   `json:"images"`
	Fallbacks        []string        `json:"fallbacks,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewRecord は生成結果と表示用に揃えた画像リストから記録を作ります。
// 局面ラベルは画像の位置で決まり、説明には対応する場面の短いタイトルを使います。
// ID には実行 ID を引き継ぐので、記録と画像の保存先が同じ ID で対応します。
func NewRecord(result *domain.GenerationResult, images []string) (StoryRecord, error) {
	cultural, err := json.Marshal(result.CulturalProfile)
	if err != nil {
		return StoryRecord{}, fmt.Errorf("文化プロファイルのエンコードに失敗しました: %w", err)
	}
	character, err := json.Marshal(result.CharacterProfile)
	if err != nil {
		return StoryRecord{}, fmt.Errorf("キャラクタープロファイルのエンコードに失敗しました: %w", err)
	}

	records := make([]ImageRecord, 0, len(images))
	for i, url := range images {
		rec := ImageRecord{
			Position: i,
			URL:      url,
			Phase:    domain.PhaseForIndex(i),
		}
		if i < len(result.Scenes) {
			rec.PhaseDescription = result.Scenes[i].ShortTitle
		}
		records = append(records, rec)
	}

	return StoryRecord{
		ID:               result.Metadata.RunID,
		Title:            result.Title(),
		Content:          result.StoryText,
		ModelUsed:        result.Metadata.Model,
		CulturalProfile:  cultural,
		CharacterProfile: character,
		Images:           records,
		Fallbacks:        result.Metadata.Fallbacks,
		CreatedAt:        result.Metadata.Timestamp,
	}, nil
}

// assignID は ID と作成日時が未設定なら埋めます。
func assignID(rec StoryRecord) StoryRecord {
	if rec.ID == "" {
		rec.ID = ksuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}
