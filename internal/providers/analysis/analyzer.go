// Package analysis describes garments from reference images. The Gemini
// analyzer is the primary source; a static describer keeps spec building
// going when it is unavailable.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lookbook/internal/domain"
)

// Image is one reference image sent for analysis.
type Image struct {
	MIMEType string
	Data     []byte
}

// Request describes what to analyse.
type Request struct {
	Workflow    domain.WorkflowType
	ProductName string
	Images      []Image
}

// Analyzer is the garment/pose analysis collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*domain.GarmentAnalysis, error)
}

var categoryNames = map[domain.WorkflowType]string{
	domain.WorkflowUpper: "top",
	domain.WorkflowLower: "bottoms",
	domain.WorkflowDress: "dress",
	domain.WorkflowSet:   "co-ord set",
}

// Static returns a generic description built from the product name or
// workflow category. It never fails.
type Static struct{}

func (Static) Analyze(ctx context.Context, req Request) (*domain.GarmentAnalysis, error) {
	c := cases.Title(language.English)
	category, ok := categoryNames[req.Workflow]
	if !ok {
		category = "garment"
	}
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		name = category
	}
	return &domain.GarmentAnalysis{
		Description: fmt.Sprintf("%s, photographed as shown in the reference images", c.String(name)),
		ProductName: c.String(name),
		Fallback:    true,
	}, nil
}

var _ Analyzer = Static{}
