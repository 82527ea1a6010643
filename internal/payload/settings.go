package payload

import "strings"

const (
	DefaultAspectRatio = "3:4"
	DefaultResolution  = "1K"
)

var allowedAspectRatios = map[string]struct{}{
	"1:1":  {},
	"2:3":  {},
	"3:4":  {},
	"4:5":  {},
	"9:16": {},
	"4:3":  {},
	"16:9": {},
}

var allowedResolutions = map[string]struct{}{
	"1K": {},
	"2K": {},
	"4K": {},
}

// NormalizeAspectRatio returns v when it is supported and the default
// otherwise.
func NormalizeAspectRatio(v string) string {
	v = strings.TrimSpace(v)
	if _, ok := allowedAspectRatios[v]; ok {
		return v
	}
	return DefaultAspectRatio
}

// NormalizeResolution upper-cases the tier and falls back to 1K.
func NormalizeResolution(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if _, ok := allowedResolutions[v]; ok {
		return v
	}
	return DefaultResolution
}
