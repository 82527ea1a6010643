package domain

import "fmt"

// Slot names a visual reference position in a session.
type Slot string

const (
	SlotModel       Slot = "model"
	SlotBackground  Slot = "background"
	SlotPose        Slot = "pose"
	SlotLighting    Slot = "lighting"
	SlotTopFront    Slot = "top_front"
	SlotTopBack     Slot = "top_back"
	SlotBottomFront Slot = "bottom_front"
	SlotBottomBack  Slot = "bottom_back"
	SlotDetail1     Slot = "detail_1"
	SlotDetail2     Slot = "detail_2"
	SlotDetail3     Slot = "detail_3"
	SlotDetail4     Slot = "detail_4"
	SlotShoes       Slot = "shoes"
	SlotJacket      Slot = "jacket"
	SlotBag         Slot = "bag"
	SlotGlasses     Slot = "glasses"
	SlotHat         Slot = "hat"
	SlotBelt        Slot = "belt"
	SlotJewelry     Slot = "jewelry"
)

// AccessorySlots lists the slots governed by the accessory inclusion rules.
var AccessorySlots = []Slot{SlotJacket, SlotBag, SlotGlasses, SlotHat, SlotBelt, SlotJewelry}

// ContextSlots are always sent when present.
var ContextSlots = []Slot{SlotModel, SlotBackground, SlotPose, SlotLighting}

// GarmentSlots maps each garment angle to the slots that belong to it.
// Detail crops 1-2 are front crops, 3-4 back crops.
var GarmentSlots = map[AngleSet][]Slot{
	AngleFront: {SlotTopFront, SlotBottomFront, SlotDetail1, SlotDetail2},
	AngleBack:  {SlotTopBack, SlotBottomBack, SlotDetail3, SlotDetail4},
}

var knownSlots = func() map[Slot]struct{} {
	m := make(map[Slot]struct{})
	for _, s := range ContextSlots {
		m[s] = struct{}{}
	}
	for _, s := range AccessorySlots {
		m[s] = struct{}{}
	}
	for _, group := range GarmentSlots {
		for _, s := range group {
			m[s] = struct{}{}
		}
	}
	m[SlotShoes] = struct{}{}
	return m
}()

// ParseSlot validates a slot name.
func ParseSlot(v string) (Slot, error) {
	s := Slot(v)
	if _, ok := knownSlots[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, v)
	}
	return s, nil
}

// IsAccessory reports whether the slot is one of the accessory slots.
func (s Slot) IsAccessory() bool {
	for _, a := range AccessorySlots {
		if a == s {
			return true
		}
	}
	return false
}

// AssetRef is the resolved reference sent to a collaborator for one slot.
type AssetRef struct {
	Slot Slot   `json:"slot"`
	URL  string `json:"url"`
}

// GarmentAnalysis is the output of the garment/pose analysis collaborator.
type GarmentAnalysis struct {
	Description  string      `json:"description"`
	ProductName  string      `json:"product_name,omitempty"`
	Closure      ClosureType `json:"closure,omitempty"`
	InnerWear    string      `json:"inner_wear,omitempty"`
	UpperGarment string      `json:"upper_garment,omitempty"`
	LowerGarment string      `json:"lower_garment,omitempty"`
	Fallback     bool        `json:"fallback,omitempty"`
}

// ClosureType classifies how the garment fastens.
type ClosureType string

const (
	ClosureButtons ClosureType = "buttons"
	ClosureZipper  ClosureType = "zipper"
	ClosureNone    ClosureType = "none"
)

// ParseClosure maps free text onto a closure type. Unknown values yield "".
func ParseClosure(v string) ClosureType {
	switch ClosureType(v) {
	case ClosureButtons, ClosureZipper, ClosureNone:
		return ClosureType(v)
	default:
		return ""
	}
}
