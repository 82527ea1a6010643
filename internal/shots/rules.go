package shots

import (
	"strings"
	"unicode"

	"lookbook/internal/domain"
)

// FirstSentence returns the text up to and including the first sentence
// terminator that is followed by whitespace or the end of input.
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i == len(runes)-1 || unicode.IsSpace(runes[i+1]) {
			return string(runes[:i+1])
		}
	}
	return text
}

// FitText applies a spec's description mode to the fit description.
func FitText(mode domain.FitDescriptionMode, text string) string {
	if mode == domain.FitDescriptionFirstSentenceOnly {
		return FirstSentence(text)
	}
	return strings.TrimSpace(text)
}

// applyDetailRules trims detail shots down to what a tight crop can show.
func applyDetailRules(s *domain.ShotSpec) {
	if !s.View.IsDetail() {
		return
	}
	s.ExcludeHairInfo = true
	s.ExcludeSocksInfo = true
	s.FitDescriptionMode = domain.FitDescriptionFirstSentenceOnly
}

// applyCameraRules removes assets the camera crop cannot see.
func applyCameraRules(s *domain.ShotSpec) {
	flags := domain.FlagsFor(domain.FramingForCamera(s.Camera))
	if !flags.HasFeet {
		s.ExcludeShoesAsset = true
		s.ExcludeSocksInfo = true
	}
	if !flags.HasWaistControls {
		s.ExcludeBeltAsset = true
	}
	if !flags.HasHead {
		s.ExcludeHatAsset = true
	}
}

// applyStyleToggles copies user behaviour toggles that survive the shot's
// own crop. Technical shots never get wind.
func applyStyleToggles(s *domain.ShotSpec, style domain.StyleOptions) {
	eff := style.Effective(domain.FlagsFor(domain.FramingForCamera(s.Camera)))
	s.HairBehind = eff.HairBehind && !s.ExcludeHairInfo
	s.LookAtCamera = eff.LookAtCamera
	s.EnableWind = eff.Wind && s.IsStyling
}

// markGlassesOnce sets IncludeGlasses on the first styling shot and clears
// it everywhere else.
func markGlassesOnce(specs []domain.ShotSpec) {
	marked := false
	for i := range specs {
		specs[i].IncludeGlasses = false
		if !marked && specs[i].IsStyling {
			specs[i].IncludeGlasses = true
			marked = true
		}
	}
}

// finalize runs the shared per-shot rules over a freshly laid-out list.
// Lower-garment lists strip accessories from their 3rd and 4th shots when
// those are technical silhouettes.
func finalize(specs []domain.ShotSpec, req Request, poses poseSet) []domain.ShotSpec {
	for i := range specs {
		s := &specs[i]
		if req.Workflow == domain.WorkflowLower && (i == 2 || i == 3) && !s.IsStyling {
			s.ExcludeAllAccessories = true
		}
		if s.Pose.Text == "" && s.Pose.PoseID == "" {
			s.Pose = poses.forView(s.View)
		}
		if s.FitDescriptionMode == "" {
			s.FitDescriptionMode = domain.FitDescriptionFull
		}
		applyCameraRules(s)
		applyDetailRules(s)
		applyStyleToggles(s, req.Style)
		s.UseStickman = poses.usesStickman(s.Pose)
		if !s.UseStickman {
			s.Pose.StickmanURL = ""
		}
	}
	markGlassesOnce(specs)
	return specs
}

func angles(a ...domain.AngleSet) []domain.AngleSet { return a }
