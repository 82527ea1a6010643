package domain

import (
	"encoding/json"
	"strings"
)

// View is the stable identifier of a shot within a batch.
type View string

const (
	ViewStylingFull          View = "styling_full"
	ViewStylingUpper         View = "styling_upper"
	ViewStylingFront         View = "styling_front"
	ViewStylingFrontUpper    View = "styling_front_upper"
	ViewStylingAngled        View = "styling_angled"
	ViewTechnicalFront       View = "technical_front"
	ViewTechnicalBack        View = "technical_back"
	ViewTechnicalUpperFront  View = "technical_upper_front"
	ViewTechnicalUpperBack   View = "technical_upper_back"
	ViewTechnicalFrontAngled View = "technical_front_angled"
	ViewDetailFront          View = "detail_front"
	ViewDetailBack           View = "detail_back"
)

// IsDetail reports whether the view is a detail crop.
func (v View) IsDetail() bool { return strings.Contains(string(v), "detail") }

// IsAngled reports whether the view uses the batch's angled pose.
func (v View) IsAngled() bool { return strings.Contains(string(v), "angled") }

// IsTechnical reports whether the view is a technical reference shot.
func (v View) IsTechnical() bool { return strings.HasPrefix(string(v), "technical") }

// Camera is the shot-type descriptor sent to the generator.
type Camera string

const (
	CameraFullBody   Camera = "full_body"
	CameraCowboyShot Camera = "cowboy_shot"
	CameraCloseUp    Camera = "close_up"
)

// AngleSet selects which garment angle images a shot carries.
type AngleSet string

const (
	AngleFront AngleSet = "front"
	AngleBack  AngleSet = "back"
)

// FitDescriptionMode controls how much of the fit description a shot uses.
type FitDescriptionMode string

const (
	FitDescriptionFull              FitDescriptionMode = "full"
	FitDescriptionFirstSentenceOnly FitDescriptionMode = "first_sentence_only"
)

// PoseRef is either free pose text or a handle into the pose library.
type PoseRef struct {
	Text        string `json:"text"`
	PoseID      string `json:"pose_id,omitempty"`
	StickmanURL string `json:"stickman_url,omitempty"`
}

// ShotSpec is one planned image request. Specs are derived values; builders
// return fresh slices and nothing mutates a spec after it is built.
type ShotSpec struct {
	View                  View               `json:"view"`
	Pose                  PoseRef            `json:"pose"`
	Camera                Camera             `json:"camera"`
	IsStyling             bool               `json:"is_styling"`
	Assets                []AngleSet         `json:"assets"`
	ExcludeAllAccessories bool               `json:"exclude_all_accessories"`
	ExcludeBeltAsset      bool               `json:"exclude_belt_asset"`
	ExcludeHatAsset       bool               `json:"exclude_hat_asset"`
	ExcludeShoesAsset     bool               `json:"exclude_shoes_asset"`
	ExcludeSocksInfo      bool               `json:"exclude_socks_info"`
	ExcludeHairInfo       bool               `json:"exclude_hair_info"`
	IncludeGlasses        bool               `json:"include_glasses"`
	UseStickman           bool               `json:"use_stickman"`
	FitDescriptionMode    FitDescriptionMode `json:"fit_description_mode"`
	HairBehind            bool               `json:"hair_behind"`
	LookAtCamera          bool               `json:"look_at_camera"`
	EnableWind            bool               `json:"enable_wind"`
}

// HasAngle reports whether the spec declares the given garment angle.
func (s ShotSpec) HasAngle(a AngleSet) bool {
	for _, x := range s.Assets {
		if x == a {
			return true
		}
	}
	return false
}

// ShotPreview is the editable unit shown before a batch is committed.
type ShotPreview struct {
	Title      string          `json:"title"`
	Spec       ShotSpec        `json:"spec"`
	Structured json.RawMessage `json:"structured,omitempty"`
	Prompt     string          `json:"prompt"`
	// Fallback is set when the preview call failed and Prompt holds the
	// structured payload instead of generated text.
	Fallback bool `json:"fallback,omitempty"`
}

// GenerationResult is one successful committed shot.
type GenerationResult struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	View   View   `json:"view"`
	URL    string `json:"url"`
	Prompt string `json:"prompt,omitempty"`
	Seed   int64  `json:"seed"`
}
