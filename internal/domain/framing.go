package domain

import "strings"

// PoseFocus is the user's choice of which part of the body the shoot centres on.
// It is the only input to framing.
type PoseFocus string

const (
	PoseFocusFull    PoseFocus = "full"
	PoseFocusUpper   PoseFocus = "upper"
	PoseFocusLower   PoseFocus = "lower"
	PoseFocusCloseup PoseFocus = "closeup"
)

// FramingMode is the effective body crop derived from a PoseFocus.
type FramingMode string

const (
	FramingHeadToToe    FramingMode = "head_to_toe"
	FramingCowboyShot   FramingMode = "cowboy_shot"
	FramingChestAndFace FramingMode = "chest_and_face"
)

// CapabilityFlags gate which styling controls are meaningful for a crop.
// They are always recomputed from the framing mode and never stored.
type CapabilityFlags struct {
	HasFeet                  bool `json:"has_feet"`
	HasLegHem                bool `json:"has_leg_hem"`
	HasWaistControls         bool `json:"has_waist_controls"`
	HasHead                  bool `json:"has_head"`
	CanShowFaceDetails       bool `json:"can_show_face_details"`
	CanShowCollarHairButtons bool `json:"can_show_collar_hair_buttons"`
}

// Framing bundles a framing mode with the capability flags it implies.
type Framing struct {
	Mode  FramingMode     `json:"framing_mode"`
	Flags CapabilityFlags `json:"flags"`
}

// ParsePoseFocus normalises free-form input. Unknown values map to full.
func ParsePoseFocus(v string) PoseFocus {
	switch PoseFocus(strings.ToLower(strings.TrimSpace(v))) {
	case PoseFocusUpper:
		return PoseFocusUpper
	case PoseFocusLower:
		return PoseFocusLower
	case PoseFocusCloseup:
		return PoseFocusCloseup
	default:
		return PoseFocusFull
	}
}

// FramingModeFor maps a pose focus to its framing mode. Unrecognised values
// fall back to head_to_toe.
func FramingModeFor(focus PoseFocus) FramingMode {
	switch focus {
	case PoseFocusCloseup:
		return FramingChestAndFace
	case PoseFocusUpper:
		return FramingCowboyShot
	default:
		return FramingHeadToToe
	}
}

// FlagsFor returns the capability flags for a framing mode.
func FlagsFor(mode FramingMode) CapabilityFlags {
	switch mode {
	case FramingChestAndFace:
		return CapabilityFlags{
			HasHead:                  true,
			CanShowFaceDetails:       true,
			CanShowCollarHairButtons: true,
		}
	case FramingCowboyShot:
		return CapabilityFlags{
			HasWaistControls:         true,
			HasHead:                  true,
			CanShowCollarHairButtons: true,
		}
	default:
		return CapabilityFlags{
			HasFeet:                  true,
			HasLegHem:                true,
			HasWaistControls:         true,
			HasHead:                  true,
			CanShowCollarHairButtons: true,
		}
	}
}

// DeriveFraming is the framing rule engine: pose focus in, framing mode and
// capability flags out. It is pure and total.
func DeriveFraming(focus PoseFocus) Framing {
	mode := FramingModeFor(focus)
	return Framing{Mode: mode, Flags: FlagsFor(mode)}
}

// CameraFor returns the shot type that matches a framing mode.
func CameraFor(mode FramingMode) Camera {
	switch mode {
	case FramingChestAndFace:
		return CameraCloseUp
	case FramingCowboyShot:
		return CameraCowboyShot
	default:
		return CameraFullBody
	}
}

// FramingForCamera is the inverse of CameraFor. Shot specs use it to decide
// which body regions a given camera can actually see.
func FramingForCamera(c Camera) FramingMode {
	switch c {
	case CameraCloseUp:
		return FramingChestAndFace
	case CameraCowboyShot:
		return FramingCowboyShot
	default:
		return FramingHeadToToe
	}
}
