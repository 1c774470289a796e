package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrClosed は Close 済みの MemoryStore を使ったときのエラーです。
var ErrClosed = errors.New("store is closed")

// MemoryStore は有効期限付きのメモリ上の Store です。データベースが設定されていないときに使います。
type MemoryStore struct {
	mu    sync.RWMutex
	cache *cache.Cache
}

// NewMemoryStore は新しい MemoryStore を生成します。
// cleanupInterval が 0 なら期限切れの項目を掃除するゴルーチンを起動しません。
// 起動した掃除用ゴルーチンは Close の後、キャッシュが回収されると止まります。
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, cleanupInterval)}
}

// current は開いているキャッシュを返します。Close 済みなら ErrClosed です。
func (s *MemoryStore) current() (*cache.Cache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return nil, ErrClosed
	}
	return s.cache, nil
}

// Save は記録を保存し、その ID を返します。
func (s *MemoryStore) Save(ctx context.Context, rec StoryRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c, err := s.current()
	if err != nil {
		return "", err
	}
	rec = assignID(rec)
	c.SetDefault(rec.ID, rec)
	return rec.ID, nil
}

// Load は ID で記録を取り出します。
func (s *MemoryStore) Load(ctx context.Context, id string) (StoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return StoryRecord{}, err
	}
	c, err := s.current()
	if err != nil {
		return StoryRecord{}, err
	}
	v, ok := c.Get(id)
	if !ok {
		return StoryRecord{}, ErrNotFound
	}
	return v.(StoryRecord), nil
}

// List は新しい順に最大 limit 件を返します。limit が 0 以下なら全件です。
func (s *MemoryStore) List(ctx context.Context, limit int) ([]StoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	items := c.Items()
	out := make([]StoryRecord, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(StoryRecord))
	}
	slices.SortFunc(out, func(a, b StoryRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close は全ての記録を破棄してキャッシュへの参照を手放します。
// go-cache の掃除用ゴルーチンはキャッシュのファイナライザーで止まるのだ。
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		return nil
	}
	s.cache.Flush()
	s.cache = nil
	return nil
}
