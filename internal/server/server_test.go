package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	pbconfig "github.com/shouni/go-picturebook-kit/pkg/config"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/pipeline"
	"github.com/shouni/go-picturebook-kit/pkg/store"
)

// stubRunner は決まった結果かエラーを返します。
type stubRunner struct {
	result *domain.GenerationResult
	err    error
	got    domain.Request
}

func (r *stubRunner) Run(_ context.Context, req domain.Request) (*domain.GenerationResult, error) {
	r.got = req
	return r.result, r.err
}

func newTestServer(runner *stubRunner) (*Server, store.Store) {
	st := store.NewMemoryStore(time.Hour, 0)
	return New(runner, st, pbconfig.DefaultConfig(), time.Minute), st
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

const mayaBody = `{
  "input": {"character_name": "Maya", "age_range": {"min": 7, "max": 9}, "traits": "brave, kind", "location": "Tokyo"},
  "metadata": {"cultural_background": "Japanese"},
  "cluster_context": {"specific_traditions": "tanabata"}
}`

func TestPostStory(t *testing.T) {
	t.Run("生成結果を保存して3枚に揃えて返すこと", func(t *testing.T) {
		runner := &stubRunner{result: &domain.GenerationResult{
			StoryText: "Maya smiled.\n\nThe End.",
			Images:    []string{"out/images/scene_1.webp"},
			StoryPlan: domain.StoryPlan{Title: "Maya's Wish"},
			Metadata:  domain.Metadata{Model: domain.ModelTag},
		}}
		s, st := newTestServer(runner)

		rec := doRequest(s, http.MethodPost, "/api/stories", mayaBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}

		var got StoryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("応答をデコードできません: %v", err)
		}
		wantImages := []string{"out/images/scene_1.webp", pbconfig.DefaultFallbackImage, pbconfig.DefaultFallbackImage}
		if diff := cmp.Diff(wantImages, got.Images); diff != "" {
			t.Errorf("Images mismatch (-want +got):\n%s", diff)
		}
		if !got.Success || got.ModelUsed != "B" || got.Title != "Maya's Wish" || got.ID == "" {
			t.Errorf("応答 = %+v", got)
		}

		if in := runner.got.Input.Normalize(); in.AgeDescriptor != "7-9" || in.TraitsText() != "brave, kind" {
			t.Errorf("リクエストが正しく渡っていません: %+v", in)
		}
		if runner.got.Cluster.SpecificTraditions != "tanabata" {
			t.Errorf("Cluster = %+v", runner.got.Cluster)
		}

		saved, err := st.Load(context.Background(), got.ID)
		if err != nil {
			t.Fatalf("保存されていません: %v", err)
		}
		if saved.Images[2].Phase != domain.PhaseEnd {
			t.Errorf("Phase = %q", saved.Images[2].Phase)
		}
	})

	t.Run("パイプラインが失敗しても汎用の物語を返すこと", func(t *testing.T) {
		s, _ := newTestServer(&stubRunner{err: errors.Join(pipeline.ErrPipeline, errors.New("boom"))})

		rec := doRequest(s, http.MethodPost, "/api/stories", mayaBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var got StoryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("応答をデコードできません: %v", err)
		}
		if got.Success || !strings.HasSuffix(got.Story, "The End.") || len(got.Images) != 3 {
			t.Errorf("応答 = %+v", got)
		}
	})

	t.Run("不正な JSON は 400 になること", func(t *testing.T) {
		s, _ := newTestServer(&stubRunner{})
		if rec := doRequest(s, http.MethodPost, "/api/stories", "{"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestGetStory(t *testing.T) {
	s, st := newTestServer(&stubRunner{})
	id, err := st.Save(context.Background(), store.StoryRecord{Title: "Saved", Content: "Hi.\n\nThe End."})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("保存済みの記録を返すこと", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/stories/"+id, "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"Saved"`) {
			t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
		}
	})

	t.Run("無い ID は 404 になること", func(t *testing.T) {
		if rec := doRequest(s, http.MethodGet, "/api/stories/nope", ""); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("一覧を返すこと", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/stories?limit=5", "")
		var list []store.StoryRecord
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
			t.Errorf("list = %v, err = %v", list, err)
		}
		if rec := doRequest(s, http.MethodGet, "/api/stories?limit=x", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("ヘルスチェックに応答すること", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
			t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
		}
	})
}
