package domain

// PageRole は挿絵が物語のどの局面を担うかを示す自由記述です。
type PageRole string

// 既知の役割です。これ以外の値も受け付けます。
const (
	PageRoleOpening    PageRole = "opening"
	PageRoleBuildUp    PageRole = "build-up"
	PageRoleClimax     PageRole = "climax"
	PageRoleResolution PageRole = "resolution"
)

// IsKnown は役割が既知の値かどうかを返します。
func (r PageRole) IsKnown() bool {
	switch r {
	case PageRoleOpening, PageRoleBuildUp, PageRoleClimax, PageRoleResolution:
		return true
	}
	return false
}

// Scene は挿絵にする物語の一場面です。
type Scene struct {
	SceneID              int      `json:"scene_id"`
	ShortTitle           string   `json:"short_title"`
	FullSceneDescription string   `json:"full_scene_description"`
	EmotionalTone        string   `json:"emotional_tone"`
	PageRole             PageRole `json:"page_role"`
}
