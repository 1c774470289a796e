package domain

import "testing"

func TestPresets(t *testing.T) {
	t.Run("既知の長さ指定はプリセットを返す", func(t *testing.T) {
		p, ok := LengthFor("medium")
		if !ok || p.MinTokens != 200 || p.MaxTokens != 280 {
			t.Errorf("LengthFor(medium) = %+v, %v", p, ok)
		}
	})

	t.Run("未知の長さ指定は false", func(t *testing.T) {
		if _, ok := LengthFor("epic"); ok {
			t.Error("未知の指定で true が返ったのだ")
		}
		if _, ok := LengthFor(""); ok {
			t.Error("空の指定で true が返ったのだ")
		}
	})

	t.Run("読者レベルは文の長さが段階的に増える", func(t *testing.T) {
		prev := 0
		for _, name := range []string{"early", "developing", "confident"} {
			p, ok := ReadingLevelFor(name)
			if !ok {
				t.Fatalf("ReadingLevelFor(%q) が見つからないのだ", name)
			}
			if p.MaxSentenceLength <= prev {
				t.Errorf("%s の MaxSentenceLength = %d, 前の値 %d より大きくあるべきなのだ", name, p.MaxSentenceLength, prev)
			}
			prev = p.MaxSentenceLength
		}
	})
}
