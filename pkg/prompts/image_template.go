package prompts

const (
	// IllustrationHeader は画像プロンプトの先頭行です。
	IllustrationHeader = "CHILDREN'S BOOK ILLUSTRATION"

	// BookStyle は全ての挿絵で共有する画風です。
	BookStyle = `Soft watercolor children's book illustration.
Bright but gentle colors.
Hand-painted texture.
No photorealism.
Consistent character proportions across pages.
Storybook compositions with clear emotions and readable actions.`

	// IllustrationRules は1枚の絵として成立させるための規則です。
	IllustrationRules = `- Focus on the main character as the clear focal point.
- You may include other characters, animals, or objects if they are implied by the scene.
- Show a single, coherent moment (not a comic strip, not multiple panels).
- No speech bubbles, no written text, no interface elements, no diagrams.
- Composition should feel like a full-page children's book illustration, not a rough storyboard frame.`

	// GenericEmotionLine は感情のトーンが無いときの指示です。
	GenericEmotionLine = "Show clear emotions in the character's expression and body language."
)
