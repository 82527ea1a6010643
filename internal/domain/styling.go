package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Toggle names a single styling control.
type Toggle string

const (
	ToggleShoeStyle     Toggle = "shoe_style"
	ToggleSocksType     Toggle = "socks_type"
	ToggleLegStyle      Toggle = "leg_style"
	ToggleHemStyle      Toggle = "hem_style"
	ToggleWaistStyle    Toggle = "waist_style"
	ToggleRiseStyle     Toggle = "rise_style"
	ToggleFitStyle      Toggle = "fit_style"
	ToggleTucked        Toggle = "tucked"
	ToggleCollarStyle   Toggle = "collar_style"
	ToggleShoulderStyle Toggle = "shoulder_style"
	ToggleHairBehind    Toggle = "hair_behind"
	ToggleButtonsOpen   Toggle = "buttons_open"
	ToggleExpression    Toggle = "expression"
	ToggleLookAtCamera  Toggle = "look_at_camera"
	ToggleFaceDetail    Toggle = "face_detail"
	ToggleWind          Toggle = "wind"
)

// StyleOptions is the full set of styling choices a user can make. Zero
// values mean "not set".
type StyleOptions struct {
	ShoeStyle     string `json:"shoe_style,omitempty"`
	SocksType     string `json:"socks_type,omitempty"`
	LegStyle      string `json:"leg_style,omitempty"`
	HemStyle      string `json:"hem_style,omitempty"`
	WaistStyle    string `json:"waist_style,omitempty"`
	RiseStyle     string `json:"rise_style,omitempty"`
	FitStyle      string `json:"fit_style,omitempty"`
	Tucked        bool   `json:"tucked,omitempty"`
	CollarStyle   string `json:"collar_style,omitempty"`
	ShoulderStyle string `json:"shoulder_style,omitempty"`
	HairBehind    bool   `json:"hair_behind,omitempty"`
	ButtonsOpen   bool   `json:"buttons_open,omitempty"`
	Expression    string `json:"expression,omitempty"`
	LookAtCamera  bool   `json:"look_at_camera,omitempty"`
	FaceDetail    string `json:"face_detail,omitempty"`
	Wind          bool   `json:"wind,omitempty"`
}

// Capable reports whether a toggle may be set under the given flags.
func (t Toggle) Capable(flags CapabilityFlags) bool {
	switch t {
	case ToggleShoeStyle, ToggleSocksType:
		return flags.HasFeet
	case ToggleLegStyle, ToggleHemStyle:
		return flags.HasLegHem
	case ToggleWaistStyle, ToggleRiseStyle, ToggleFitStyle, ToggleTucked:
		return flags.HasWaistControls
	case ToggleCollarStyle, ToggleShoulderStyle, ToggleHairBehind, ToggleButtonsOpen:
		return flags.CanShowCollarHairButtons
	case ToggleExpression, ToggleLookAtCamera:
		return flags.HasHead
	case ToggleFaceDetail:
		return flags.CanShowFaceDetails
	case ToggleWind:
		return true
	default:
		return false
	}
}

// Set applies a single toggle. Toggles that are not enabled by the current
// flags are rejected with ErrToggleNotCapable and leave o untouched.
func (o *StyleOptions) Set(flags CapabilityFlags, t Toggle, value string) error {
	if !t.Capable(flags) {
		return fmt.Errorf("%w: %s", ErrToggleNotCapable, t)
	}
	value = strings.TrimSpace(value)
	var b bool
	switch t {
	case ToggleTucked, ToggleHairBehind, ToggleButtonsOpen, ToggleLookAtCamera, ToggleWind:
		if value != "" {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("toggle %s: %w", t, err)
			}
			b = parsed
		}
	}
	switch t {
	case ToggleShoeStyle:
		o.ShoeStyle = value
	case ToggleSocksType:
		o.SocksType = value
	case ToggleLegStyle:
		o.LegStyle = value
	case ToggleHemStyle:
		o.HemStyle = value
	case ToggleWaistStyle:
		o.WaistStyle = value
	case ToggleRiseStyle:
		o.RiseStyle = value
	case ToggleFitStyle:
		o.FitStyle = value
	case ToggleTucked:
		o.Tucked = b
	case ToggleCollarStyle:
		o.CollarStyle = value
	case ToggleShoulderStyle:
		o.ShoulderStyle = value
	case ToggleHairBehind:
		o.HairBehind = b
	case ToggleButtonsOpen:
		o.ButtonsOpen = b
	case ToggleExpression:
		o.Expression = value
	case ToggleLookAtCamera:
		o.LookAtCamera = b
	case ToggleFaceDetail:
		o.FaceDetail = value
	case ToggleWind:
		o.Wind = b
	}
	return nil
}

// Effective returns a copy with every toggle the flags do not allow cleared.
// A value set under an earlier pose focus never survives a framing change.
func (o StyleOptions) Effective(flags CapabilityFlags) StyleOptions {
	out := o
	if !flags.HasFeet {
		out.ShoeStyle, out.SocksType = "", ""
	}
	if !flags.HasLegHem {
		out.LegStyle, out.HemStyle = "", ""
	}
	if !flags.HasWaistControls {
		out.WaistStyle, out.RiseStyle, out.FitStyle = "", "", ""
		out.Tucked = false
	}
	if !flags.CanShowCollarHairButtons {
		out.CollarStyle, out.ShoulderStyle = "", ""
		out.HairBehind, out.ButtonsOpen = false, false
	}
	if !flags.HasHead {
		out.Expression = ""
		out.LookAtCamera = false
	}
	if !flags.CanShowFaceDetails {
		out.FaceDetail = ""
	}
	return out
}
