package generator

const (
	// fallbackScenePrefix は段落から作る代替場面のタイトル接頭辞です。
	fallbackScenePrefix = "Scene"
	// fallbackSceneTone は代替場面の感情トーンです。
	fallbackSceneTone = "gentle"
	// minSceneParagraphLength より長い段落だけを代替場面にします。
	minSceneParagraphLength = 30
	// briefCharsPerWord は要約に失敗したときの切り詰めで使う1語あたりの文字数です。
	briefCharsPerWord = 6
)
