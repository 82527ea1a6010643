package assets

import "lookbook/internal/domain"

// Policy carries caller overrides for asset inclusion.
type Policy struct {
	// TechnicalAccessories whitelists accessory slots for technical shots.
	TechnicalAccessories []domain.Slot `json:"technical_accessories,omitempty"`
}

func (p Policy) allowsOnTechnical(slot domain.Slot) bool {
	for _, s := range p.TechnicalAccessories {
		if s == slot {
			return true
		}
	}
	return false
}

// IncludeAccessory applies the accessory rules for one shot.
func IncludeAccessory(spec domain.ShotSpec, slot domain.Slot, p Policy) bool {
	if spec.ExcludeAllAccessories {
		return false
	}
	switch slot {
	case domain.SlotBelt:
		if spec.ExcludeBeltAsset {
			return false
		}
	case domain.SlotHat:
		if spec.ExcludeHatAsset {
			return false
		}
	case domain.SlotGlasses:
		return spec.IncludeGlasses || (!spec.IsStyling && p.allowsOnTechnical(slot))
	}
	return spec.IsStyling || p.allowsOnTechnical(slot)
}

// Included reports whether a slot belongs in a shot's payload.
func Included(spec domain.ShotSpec, slot domain.Slot, p Policy) bool {
	if slot.IsAccessory() {
		return IncludeAccessory(spec, slot, p)
	}
	switch slot {
	case domain.SlotShoes:
		return !spec.ExcludeShoesAsset
	case domain.SlotPose:
		// Angled views carry their own pose.
		return !spec.View.IsAngled() && spec.Pose.PoseID == ""
	}
	for angle, slots := range domain.GarmentSlots {
		for _, s := range slots {
			if s == slot {
				return spec.HasAngle(angle)
			}
		}
	}
	return true
}

// orderedSlots is the stable order references are sent in.
func orderedSlots() []domain.Slot {
	out := append([]domain.Slot{}, domain.ContextSlots...)
	out = append(out, domain.GarmentSlots[domain.AngleFront]...)
	out = append(out, domain.GarmentSlots[domain.AngleBack]...)
	out = append(out, domain.SlotShoes)
	return append(out, domain.AccessorySlots...)
}

// ResolveForShot returns the resolved references a shot sends, high
// fidelity preferred, in a stable order.
func ResolveForShot(spec domain.ShotSpec, lib *Library, p Policy) []domain.AssetRef {
	var refs []domain.AssetRef
	for _, slot := range orderedSlots() {
		if !Included(spec, slot, p) {
			continue
		}
		if url, ok := lib.Resolve(slot); ok {
			refs = append(refs, domain.AssetRef{Slot: slot, URL: url})
		}
	}
	return refs
}

// CheckRequired verifies the slots every batch needs are present.
func CheckRequired(lib *Library) error {
	if !lib.Has(domain.SlotModel) {
		return missing(domain.SlotModel)
	}
	if !lib.Has(domain.SlotTopFront) && !lib.Has(domain.SlotBottomFront) {
		return missing(domain.SlotTopFront)
	}
	return nil
}
