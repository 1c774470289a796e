package asset

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は挿絵を格納するディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultStoryJSON は生成結果全体を書き出す JSON ファイル名です。
	DefaultStoryJSON = "story.json"
	// DefaultStorybookName は絵本として読める Markdown ファイル名です。
	DefaultStorybookName = "storybook.md"
	// DefaultSceneFileName は挿絵の共通のベースファイル名です。
	DefaultSceneFileName = "scene.webp"

	gcsScheme = "gs://"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// IsGCSPath は path が gs:// で始まるかどうかを返します。
func IsGCSPath(path string) bool {
	return strings.HasPrefix(strings.ToLower(path), gcsScheme)
}

// SplitGCSPath は gs://bucket/object をバケット名とオブジェクト名に分けます。
func SplitGCSPath(path string) (bucket, object string, err error) {
	if !IsGCSPath(path) {
		return "", "", fmt.Errorf("GCS のパスではありません: %s", path)
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("無効なGCS URIです: %w", err)
	}
	object = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || object == "" {
		return "", "", fmt.Errorf("バケット名またはオブジェクト名がありません: %s", path)
	}
	return u.Host, object, nil
}
