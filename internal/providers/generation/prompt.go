package generation

import (
	"fmt"
	"strings"

	"lookbook/internal/domain"
)

var cameraDirections = map[domain.Camera]string{
	domain.CameraFullBody:   "Full body shot, head to toe, feet visible.",
	domain.CameraCowboyShot: "Cowboy shot, framed from mid-thigh up.",
	domain.CameraCloseUp:    "Close-up, chest and face only.",
}

var slotRoles = map[domain.Slot]string{
	domain.SlotModel:       "the model identity to keep",
	domain.SlotBackground:  "the background to place the model in",
	domain.SlotPose:        "the pose to reproduce",
	domain.SlotLighting:    "the lighting mood to match",
	domain.SlotTopFront:    "the top, front side",
	domain.SlotTopBack:     "the top, back side",
	domain.SlotBottomFront: "the bottom, front side",
	domain.SlotBottomBack:  "the bottom, back side",
}

// RenderPrompt turns a request into a natural language instruction for an
// image model. An edited prompt in req.Prompt wins.
func RenderPrompt(req Request) string {
	if p := strings.TrimSpace(req.Prompt); p != "" {
		return p
	}
	var lines []string

	product := strings.TrimSpace(req.ProductName)
	if product == "" {
		product = "the garment"
	}
	kind := "technical catalogue photo on a clean studio backdrop"
	if req.IsStyling {
		kind = "styled editorial photo"
	}
	lines = append(lines, fmt.Sprintf("Create a %s of a %s model wearing %s.", kind, genderWord(req.Gender), product))
	if dir, ok := cameraDirections[req.Camera]; ok {
		lines = append(lines, dir)
	}
	lines = append(lines, viewDirection(req.View))

	if d := strings.TrimSpace(req.Description); d != "" {
		lines = append(lines, "Garment: "+d)
	}
	if f := strings.TrimSpace(req.FitDescription); f != "" {
		lines = append(lines, "Fit: "+f)
	}
	var parts []string
	if req.UpperGarment != "" {
		parts = append(parts, "upper garment "+req.UpperGarment)
	}
	if req.LowerGarment != "" {
		parts = append(parts, "lower garment "+req.LowerGarment)
	}
	if req.InnerWear != "" {
		parts = append(parts, "inner wear "+req.InnerWear)
	}
	if len(parts) > 0 {
		lines = append(lines, "Outfit details: "+strings.Join(parts, "; ")+".")
	}
	if req.Closure != "" && req.Closure != domain.ClosureNone {
		state := "closed"
		if req.Flags.ButtonsOpen {
			state = "open"
		}
		lines = append(lines, fmt.Sprintf("Closure: %s, worn %s.", req.Closure, state))
	}
	if p := strings.TrimSpace(req.Pose); p != "" {
		lines = append(lines, "Pose: "+p)
	}
	if req.StickmanURL != "" {
		lines = append(lines, "Follow the skeleton reference for limb placement.")
	}
	if styling := flagDirections(req.Flags); len(styling) > 0 {
		lines = append(lines, "Styling: "+strings.Join(styling, ", ")+".")
	}
	for i, ref := range req.Assets {
		role, ok := slotRoles[ref.Slot]
		if !ok {
			role = "the " + strings.ReplaceAll(string(ref.Slot), "_", " ") + " to include"
		}
		lines = append(lines, fmt.Sprintf("Reference image %d shows %s.", i+1, role))
	}
	lines = append(lines, fmt.Sprintf("Aspect ratio %s. Preserve fabric texture, colour and print exactly as in the references.", req.AspectRatio))
	return strings.Join(lines, "\n")
}

func genderWord(g string) string {
	if g == string(domain.GenderMale) {
		return "male"
	}
	return "female"
}

func viewDirection(v domain.View) string {
	switch {
	case v.IsDetail():
		return "Focus tightly on construction details: stitching, fabric and trims."
	case v.IsAngled():
		return "Three-quarter angle, body turned away from the camera."
	case strings.Contains(string(v), "back"):
		return "Back view, model facing away from the camera."
	default:
		return "Front view, model facing the camera."
	}
}

func flagDirections(f Flags) []string {
	var out []string
	add := func(label, v string) {
		if strings.TrimSpace(v) != "" {
			out = append(out, label+" "+v)
		}
	}
	add("shoes", f.ShoeStyle)
	add("socks", f.SocksType)
	add("legs", f.LegStyle)
	add("hem", f.HemStyle)
	add("waist", f.WaistStyle)
	add("rise", f.RiseStyle)
	add("fit", f.FitStyle)
	add("collar", f.CollarStyle)
	add("shoulders", f.ShoulderStyle)
	add("expression", f.Expression)
	add("face", f.FaceDetail)
	if f.Tucked {
		out = append(out, "top tucked in")
	}
	if f.HairBehind {
		out = append(out, "hair behind the shoulders")
	}
	if f.LookAtCamera {
		out = append(out, "looking at the camera")
	}
	if f.Wind {
		out = append(out, "light wind moving hair and fabric")
	}
	return out
}
