package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"lookbook/internal/domain"
)

// ContentGenerator is the part of genai.Models the analyzer uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini analyses garment images with a Gemini model.
type Gemini struct {
	models ContentGenerator
	model  string
}

// NewGeminiClient connects to the Gemini API and returns an analyzer.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("analysis: gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: gemini client: %w", err)
	}
	return NewGemini(client.Models, model), nil
}

// NewGemini wraps an existing content generator.
func NewGemini(models ContentGenerator, model string) *Gemini {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{models: models, model: model}
}

type geminiAnalysis struct {
	Description  string `json:"description"`
	ProductName  string `json:"product_name"`
	Closure      string `json:"closure"`
	InnerWear    string `json:"inner_wear"`
	UpperGarment string `json:"upper_garment"`
	LowerGarment string `json:"lower_garment"`
}

func (g *Gemini) Analyze(ctx context.Context, req Request) (*domain.GarmentAnalysis, error) {
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("analysis: %w: no images", domain.ErrMissingAsset)
	}
	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		mime := img.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: img.Data}})
	}
	parts = append(parts, genai.NewPartFromText(analysisPrompt(req)))

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: parts}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.2),
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("analysis: %w: %v", domain.ErrProviderFailure, err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("analysis: %w: empty response", domain.ErrProviderFailure)
	}
	var out geminiAnalysis
	if err := json.Unmarshal([]byte(stripFence(text)), &out); err != nil {
		return nil, fmt.Errorf("analysis: %w: decode: %v", domain.ErrProviderFailure, err)
	}
	if strings.TrimSpace(out.Description) == "" {
		return nil, fmt.Errorf("analysis: %w: no description", domain.ErrProviderFailure)
	}
	return &domain.GarmentAnalysis{
		Description:  strings.TrimSpace(out.Description),
		ProductName:  strings.TrimSpace(out.ProductName),
		Closure:      domain.ParseClosure(strings.ToLower(strings.TrimSpace(out.Closure))),
		InnerWear:    strings.TrimSpace(out.InnerWear),
		UpperGarment: strings.TrimSpace(out.UpperGarment),
		LowerGarment: strings.TrimSpace(out.LowerGarment),
	}, nil
}

func analysisPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("You are describing apparel for a product photo shoot. ")
	fmt.Fprintf(&sb, "Workflow: %s. ", req.Workflow)
	if name := strings.TrimSpace(req.ProductName); name != "" {
		fmt.Fprintf(&sb, "Product name given by the seller: %q. ", name)
	}
	sb.WriteString("Describe only what is visible: fabric, colour, cut, fit, and construction details. ")
	sb.WriteString(`Respond strictly as JSON: {"description":string,"product_name":string,"closure":"buttons"|"zipper"|"none","inner_wear":string,"upper_garment":string,"lower_garment":string}. `)
	sb.WriteString("Keep each sub-description under 20 words and leave fields empty when they do not apply.")
	return sb.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var _ Analyzer = (*Gemini)(nil)
