package builder

import (
	"errors"

	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/asset"
	pbconfig "github.com/shouni/go-picturebook-kit/pkg/config"
	"github.com/shouni/go-picturebook-kit/pkg/pipeline"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
	"github.com/shouni/go-picturebook-kit/pkg/store"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを CLI と HTTP サーバーの両方に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config         *config.Config               // Configは、環境変数とフラグから組み立てた設定です。
	PipelineConfig pbconfig.Config              // PipelineConfigは、パイプラインに渡した正規化済みの設定です。
	Pipeline       pipeline.Runner              // Pipelineは、1リクエスト分の絵本を生成します。
	Store          store.Store                  // Storeは、生成結果の保存先です。
	Writer         asset.Writer                 // Writerは、生成物の書き込み先です（ローカル or gs://）。
	Publisher      *publisher.StorybookPublisher // Publisherは、Markdown と JSON を書き出します。

	closers []func() error
}

// Close は保持しているリソースを逆順に解放します。
func (a *AppContext) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
