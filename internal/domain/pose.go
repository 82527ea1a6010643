package domain

// AngledPoseTag marks library poses shot from a three-quarter angle.
const AngledPoseTag = "yan_aci"

// Pose is a reusable pose from the library.
type Pose struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Gender      Gender   `json:"gender" yaml:"gender"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Text        string   `json:"text" yaml:"text"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url"`
	StickmanURL string   `json:"stickman_url,omitempty" yaml:"stickman_url"`
}

// HasTag reports whether the pose carries tag.
func (p Pose) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Ref converts the pose into a reference usable by a shot spec.
func (p Pose) Ref() PoseRef {
	return PoseRef{Text: p.Text, PoseID: p.ID, StickmanURL: p.StickmanURL}
}
