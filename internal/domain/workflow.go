package domain

import "strings"

// WorkflowType is the apparel category a shoot is planned for.
type WorkflowType string

const (
	WorkflowUpper WorkflowType = "upper"
	WorkflowLower WorkflowType = "lower"
	WorkflowDress WorkflowType = "dress"
	WorkflowSet   WorkflowType = "set"
)

// Gender selects gendered pose presets.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ParseGender defaults to female when the input is not recognised.
func ParseGender(v string) Gender {
	if strings.EqualFold(strings.TrimSpace(v), string(GenderMale)) {
		return GenderMale
	}
	return GenderFemale
}

var lowerBodyKeywords = []string{
	"pants", "trousers", "jeans", "jean", "skirt", "shorts", "leggings", "chinos", "joggers",
	"pantolon", "etek", "şort", "sort", "tayt", "eşofman altı",
}

// ParseWorkflowType returns the workflow for a known value and false otherwise.
func ParseWorkflowType(v string) (WorkflowType, bool) {
	switch w := WorkflowType(strings.ToLower(strings.TrimSpace(v))); w {
	case WorkflowUpper, WorkflowLower, WorkflowDress, WorkflowSet:
		return w, true
	default:
		return "", false
	}
}

// InferWorkflow guesses the workflow from a free-text product name. Any
// lower-body keyword selects lower, everything else is upper.
func InferWorkflow(productName string) WorkflowType {
	name := strings.ToLower(productName)
	for _, kw := range lowerBodyKeywords {
		if strings.Contains(name, kw) {
			return WorkflowLower
		}
	}
	return WorkflowUpper
}

// ResolveWorkflow prefers an explicit choice and falls back to inference.
func ResolveWorkflow(explicit, productName string) WorkflowType {
	if w, ok := ParseWorkflowType(explicit); ok {
		return w
	}
	return InferWorkflow(productName)
}
