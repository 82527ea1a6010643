// Package payload turns a shot spec plus the current session into a
// generation request. The preview assembler and the batch executor share it
// so both calls for a shot carry the same inputs.
package payload

import (
	"lookbook/internal/assets"
	"lookbook/internal/domain"
	"lookbook/internal/providers/generation"
	"lookbook/internal/shots"
)

// Input is the session-wide state a payload is built from.
type Input struct {
	Workflow       domain.WorkflowType
	Gender         domain.Gender
	ProductName    string
	FitDescription string
	Analysis       domain.GarmentAnalysis
	Style          domain.StyleOptions
	AspectRatio    string
	Resolution     string
	Library        *assets.Library
	Policy         assets.Policy
}

// Build assembles the request for one shot. The preview bit and seed are
// left for the caller.
func Build(spec domain.ShotSpec, in Input) generation.Request {
	req := generation.Request{
		View:           spec.View,
		Camera:         spec.Camera,
		IsStyling:      spec.IsStyling,
		Workflow:       string(in.Workflow),
		Gender:         string(in.Gender),
		ProductName:    in.ProductName,
		Description:    in.Analysis.Description,
		FitDescription: shots.FitText(spec.FitDescriptionMode, in.FitDescription),
		Closure:        in.Analysis.Closure,
		InnerWear:      in.Analysis.InnerWear,
		UpperGarment:   in.Analysis.UpperGarment,
		LowerGarment:   in.Analysis.LowerGarment,
		Pose:           spec.Pose.Text,
		AspectRatio:    NormalizeAspectRatio(in.AspectRatio),
		Resolution:     NormalizeResolution(in.Resolution),
		Flags:          Flags(spec, in.Style),
	}
	if req.ProductName == "" {
		req.ProductName = in.Analysis.ProductName
	}
	if spec.UseStickman {
		req.StickmanURL = spec.Pose.StickmanURL
	}
	if in.Library != nil {
		req.Assets = assets.ResolveForShot(spec, in.Library, in.Policy)
	}
	return req
}

// Flags filters the user's styling options through the shot's crop and its
// exclude flags.
func Flags(spec domain.ShotSpec, style domain.StyleOptions) generation.Flags {
	eff := style.Effective(domain.FlagsFor(domain.FramingForCamera(spec.Camera)))
	f := generation.Flags{
		Tucked:        eff.Tucked,
		ButtonsOpen:   eff.ButtonsOpen,
		Wind:          spec.EnableWind,
		LookAtCamera:  spec.LookAtCamera,
		HairBehind:    spec.HairBehind,
		Expression:    eff.Expression,
		SocksType:     eff.SocksType,
		ShoeStyle:     eff.ShoeStyle,
		CollarStyle:   eff.CollarStyle,
		ShoulderStyle: eff.ShoulderStyle,
		WaistStyle:    eff.WaistStyle,
		RiseStyle:     eff.RiseStyle,
		FitStyle:      eff.FitStyle,
		LegStyle:      eff.LegStyle,
		HemStyle:      eff.HemStyle,
		FaceDetail:    eff.FaceDetail,
	}
	if spec.ExcludeSocksInfo {
		f.SocksType = ""
	}
	if spec.ExcludeShoesAsset {
		f.ShoeStyle = ""
	}
	if spec.ExcludeHairInfo {
		f.HairBehind = false
	}
	return f
}
