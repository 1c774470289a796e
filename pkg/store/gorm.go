package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// storyRow は stories テーブルの1行です。
type storyRow struct {
	ID               string         `gorm:"column:id;primaryKey"`
	Title            string         `gorm:"column:title;size:200"`
	Content          string         `gorm:"column:content"`
	ModelUsed        string         `gorm:"column:model_used;size:16"`
	CulturalProfile  datatypes.JSON `gorm:"column:cultural_profile"`
	CharacterProfile datatypes.JSON `gorm:"column:character_profile"`
	Fallbacks        datatypes.JSON `gorm:"column:fallbacks"`
	Images           []imageRow     `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `gorm:"column:created_at;index"`
}

func (storyRow) TableName() string { return "stories" }

// imageRow は story_images テーブルの1行です。
type imageRow struct {
	ID               uint   `gorm:"column:id;primaryKey"`
	StoryID          string `gorm:"column:story_id;index"`
	Position         int    `gorm:"column:position"`
	URL              string `gorm:"column:url"`
	Phase            string `gorm:"column:phase;size:16"`
	PhaseDescription string `gorm:"column:phase_description"`
}

func (imageRow) TableName() string { return "story_images" }

// GormStore は gorm と SQLite を使う Store です。
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite は path の SQLite データベースを開き、テーブルを作成します。
// path が ":memory:" ならプロセス内だけのデータベースになります。
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("データベース '%s' を開けませんでした: %w", path, err)
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// 接続ごとに別のデータベースにならないよう1本に絞るのだ
		sqlDB.SetMaxOpenConns(1)
	}
	return NewGormStore(db)
}

// NewGormStore は既存の接続から GormStore を生成します。
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&storyRow{}, &imageRow{}); err != nil {
		return nil, fmt.Errorf("マイグレーションに失敗しました: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save は記録と画像を1トランザクションで保存します。
func (s *GormStore) Save(ctx context.Context, rec StoryRecord) (string, error) {
	rec = assignID(rec)
	row, err := toRow(rec)
	if err != nil {
		return "", err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return "", fmt.Errorf("物語の保存に失敗しました: %w", err)
	}
	return rec.ID, nil
}

// Load は ID で記録を取り出します。
func (s *GormStore) Load(ctx context.Context, id string) (StoryRecord, error) {
	var row storyRow
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StoryRecord{}, ErrNotFound
	}
	if err != nil {
		return StoryRecord{}, fmt.Errorf("物語の読み込みに失敗しました: %w", err)
	}
	return fromRow(row)
}

// List は新しい順に最大 limit 件を返します。limit が 0 以下なら全件です。
func (s *GormStore) List(ctx context.Context, limit int) ([]StoryRecord, error) {
	q := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []storyRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("物語の一覧取得に失敗しました: %w", err)
	}

	out := make([]StoryRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close はデータベース接続を閉じます。
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(rec StoryRecord) (storyRow, error) {
	fallbacks, err := json.Marshal(rec.Fallbacks)
	if err != nil {
		return storyRow{}, err
	}
	row := storyRow{
		ID:               rec.ID,
		Title:            rec.Title,
		Content:          rec.Content,
		ModelUsed:        rec.ModelUsed,
		CulturalProfile:  datatypes.JSON(rec.CulturalProfile),
		CharacterProfile: datatypes.JSON(rec.CharacterProfile),
		Fallbacks:        datatypes.JSON(fallbacks),
		CreatedAt:        rec.CreatedAt,
	}
	for _, img := range rec.Images {
		row.Images = append(row.Images, imageRow{
			StoryID:          rec.ID,
			Position:         img.Position,
			URL:              img.URL,
			Phase:            string(img.Phase),
			PhaseDescription: img.PhaseDescription,
		})
	}
	return row, nil
}

func fromRow(row storyRow) (StoryRecord, error) {
	rec := StoryRecord{
		ID:               row.ID,
		Title:            row.Title,
		Content:          row.Content,
		ModelUsed:        row.ModelUsed,
		CulturalProfile:  json.RawMessage(row.CulturalProfile),
		CharacterProfile: json.RawMessage(row.CharacterProfile),
		CreatedAt:        row.CreatedAt,
	}
	if len(row.Fallbacks) > 0 {
		if err := json.Unmarshal(row.Fallbacks, &rec.Fallbacks); err != nil {
			return StoryRecord{}, fmt.Errorf("代替ステージ一覧のデコードに失敗しました: %w", err)
		}
	}
	for _, img := range row.Images {
		rec.Images = append(rec.Images, ImageRecord{
			Position:         img.Position,
			URL:              img.URL,
			Phase:            domain.Phase(img.Phase),
			PhaseDescription: img.PhaseDescription,
		})
	}
	return rec, nil
}
