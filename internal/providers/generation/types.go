package generation

import (
	"encoding/json"

	"lookbook/internal/domain"
)

// Flags are the behavioural switches sent with every request. Empty strings
// mean "leave it to the model".
type Flags struct {
	Tucked        bool   `json:"tucked"`
	ButtonsOpen   bool   `json:"buttons_open"`
	Wind          bool   `json:"wind"`
	LookAtCamera  bool   `json:"look_at_camera"`
	HairBehind    bool   `json:"hair_behind"`
	Expression    string `json:"expression,omitempty"`
	SocksType     string `json:"socks_type,omitempty"`
	ShoeStyle     string `json:"shoe_style,omitempty"`
	CollarStyle   string `json:"collar_style,omitempty"`
	ShoulderStyle string `json:"shoulder_style,omitempty"`
	WaistStyle    string `json:"waist_style,omitempty"`
	RiseStyle     string `json:"rise_style,omitempty"`
	FitStyle      string `json:"fit_style,omitempty"`
	LegStyle      string `json:"leg_style,omitempty"`
	HemStyle      string `json:"hem_style,omitempty"`
	FaceDetail    string `json:"face_detail,omitempty"`
}

// Request is one preview or commit call.
type Request struct {
	Preview        bool               `json:"preview"`
	View           domain.View        `json:"view"`
	Camera         domain.Camera      `json:"camera"`
	IsStyling      bool               `json:"is_styling"`
	Workflow       string             `json:"workflow,omitempty"`
	Gender         string             `json:"gender,omitempty"`
	ProductName    string             `json:"product_name,omitempty"`
	Description    string             `json:"description,omitempty"`
	FitDescription string             `json:"fit_description,omitempty"`
	Closure        domain.ClosureType `json:"closure,omitempty"`
	InnerWear      string             `json:"inner_wear,omitempty"`
	UpperGarment   string             `json:"upper_garment,omitempty"`
	LowerGarment   string             `json:"lower_garment,omitempty"`
	Pose           string             `json:"pose,omitempty"`
	StickmanURL    string             `json:"stickman_url,omitempty"`
	Assets         []domain.AssetRef  `json:"assets"`
	AspectRatio    string             `json:"aspect_ratio"`
	Resolution     string             `json:"resolution"`
	Seed           int64              `json:"seed,omitempty"`
	Flags          Flags              `json:"flags"`
	// Prompt replaces the generated text when the user edited a preview.
	Prompt string `json:"prompt,omitempty"`
}

// PreviewItem is one entry of a preview response.
type PreviewItem struct {
	Prompt     string          `json:"prompt"`
	Structured json.RawMessage `json:"structured"`
	Settings   json.RawMessage `json:"settings,omitempty"`
}

// PreviewResult is the decoded preview response.
type PreviewResult struct {
	Previews []PreviewItem `json:"previews"`
}

// CommitResult is the decoded commit response.
type CommitResult struct {
	Images  []string `json:"images"`
	Prompts []string `json:"prompts"`
}

// FirstImage returns the first non-empty image url.
func (r *CommitResult) FirstImage() string {
	if r == nil {
		return ""
	}
	for _, u := range r.Images {
		if u != "" {
			return u
		}
	}
	return ""
}

// FirstPrompt returns the resolved prompt for the first image, if any.
func (r *CommitResult) FirstPrompt() string {
	if r == nil || len(r.Prompts) == 0 {
		return ""
	}
	return r.Prompts[0]
}
