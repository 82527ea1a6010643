package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"

	"lookbook/internal/domain"
)

func TestLibraryInvariant(t *testing.T) {
	lib := NewLibrary(nil)
	if err := lib.Set(domain.SlotHat, "", "data:image/png;base64,AAA"); !errors.Is(err, ErrHighWithoutLow) {
		t.Fatalf("Set high without low err = %v", err)
	}
	if err := lib.Set(domain.SlotHat, "https://cdn.test/hat.jpg", ""); err != nil {
		t.Fatalf("Set low only: %v", err)
	}
	if got, _ := lib.Resolve(domain.SlotHat); got != "https://cdn.test/hat.jpg" {
		t.Fatalf("Resolve low = %q", got)
	}
	if err := lib.Set(domain.SlotHat, "https://cdn.test/hat.jpg", "https://cdn.test/hat-full.png"); err != nil {
		t.Fatalf("Set both: %v", err)
	}
	if got, _ := lib.Resolve(domain.SlotHat); got != "https://cdn.test/hat-full.png" {
		t.Fatalf("Resolve prefers high, got %q", got)
	}
	lib.DropHighFidelity()
	if got, _ := lib.Resolve(domain.SlotHat); got != "https://cdn.test/hat.jpg" {
		t.Fatalf("Resolve after drop = %q", got)
	}
	if refs := lib.LowRefs(); refs[domain.SlotHat] != "https://cdn.test/hat.jpg" {
		t.Fatalf("LowRefs = %v", refs)
	}
}

func fullLibrary(t *testing.T) *Library {
	t.Helper()
	lib := NewLibrary(nil)
	for _, s := range []domain.Slot{
		domain.SlotModel, domain.SlotTopFront, domain.SlotTopBack, domain.SlotDetail1, domain.SlotDetail3,
		domain.SlotShoes, domain.SlotJacket, domain.SlotBag, domain.SlotGlasses, domain.SlotHat, domain.SlotBelt, domain.SlotJewelry,
	} {
		if err := lib.Set(s, "low/"+string(s), "high/"+string(s)); err != nil {
			t.Fatalf("Set(%s): %v", s, err)
		}
	}
	return lib
}

func slotsOf(refs []domain.AssetRef) map[domain.Slot]string {
	out := make(map[domain.Slot]string, len(refs))
	for _, r := range refs {
		out[r.Slot] = r.URL
	}
	return out
}

func TestAccessoryInclusion(t *testing.T) {
	styling := domain.ShotSpec{View: domain.ViewStylingFront, IsStyling: true, IncludeGlasses: true, Assets: []domain.AngleSet{domain.AngleFront}}
	technical := domain.ShotSpec{View: domain.ViewTechnicalBack, Assets: []domain.AngleSet{domain.AngleBack}}
	stripped := domain.ShotSpec{View: domain.ViewTechnicalFront, ExcludeAllAccessories: true, Assets: []domain.AngleSet{domain.AngleFront}}

	cases := []struct {
		name   string
		spec   domain.ShotSpec
		policy Policy
		slot   domain.Slot
		want   bool
	}{
		{"styling bag", styling, Policy{}, domain.SlotBag, true},
		{"styling glasses marked", styling, Policy{}, domain.SlotGlasses, true},
		{"styling glasses unmarked", domain.ShotSpec{IsStyling: true}, Policy{}, domain.SlotGlasses, false},
		{"technical bag", technical, Policy{}, domain.SlotBag, false},
		{"technical bag whitelisted", technical, Policy{TechnicalAccessories: []domain.Slot{domain.SlotBag}}, domain.SlotBag, true},
		{"technical glasses whitelisted", technical, Policy{TechnicalAccessories: []domain.Slot{domain.SlotGlasses}}, domain.SlotGlasses, true},
		{"exclude all beats whitelist", stripped, Policy{TechnicalAccessories: []domain.Slot{domain.SlotBag}}, domain.SlotBag, false},
		{"belt excluded", domain.ShotSpec{IsStyling: true, ExcludeBeltAsset: true}, Policy{}, domain.SlotBelt, false},
		{"hat excluded", domain.ShotSpec{IsStyling: true, ExcludeHatAsset: true}, Policy{}, domain.SlotHat, false},
	}
	for _, tc := range cases {
		if got := Included(tc.spec, tc.slot, tc.policy); got != tc.want {
			t.Fatalf("%s: Included = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveForShotAngles(t *testing.T) {
	lib := fullLibrary(t)
	spec := domain.ShotSpec{View: domain.ViewTechnicalBack, Assets: []domain.AngleSet{domain.AngleBack}, ExcludeShoesAsset: true}
	got := slotsOf(ResolveForShot(spec, lib, Policy{}))
	if _, ok := got[domain.SlotTopFront]; ok {
		t.Fatalf("back shot included top_front: %v", got)
	}
	if got[domain.SlotTopBack] != "high/top_back" || got[domain.SlotDetail3] != "high/detail_3" {
		t.Fatalf("back shot refs = %v", got)
	}
	if _, ok := got[domain.SlotDetail1]; ok {
		t.Fatalf("back shot included a front detail crop")
	}
	if _, ok := got[domain.SlotShoes]; ok {
		t.Fatalf("shoes should be excluded")
	}
	if got[domain.SlotModel] != "high/model" {
		t.Fatalf("model missing: %v", got)
	}
	for _, a := range domain.AccessorySlots {
		if _, ok := got[a]; ok {
			t.Fatalf("technical shot included accessory %s", a)
		}
	}
}

func TestCheckRequired(t *testing.T) {
	lib := NewLibrary(nil)
	if err := CheckRequired(lib); !errors.Is(err, domain.ErrMissingAsset) {
		t.Fatalf("CheckRequired empty err = %v", err)
	}
	_ = lib.Set(domain.SlotModel, "m", "")
	_ = lib.Set(domain.SlotBottomFront, "b", "")
	if err := CheckRequired(lib); err != nil {
		t.Fatalf("CheckRequired: %v", err)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestLowFidelityBoundsLongestEdge(t *testing.T) {
	out, err := LowFidelity(encodePNG(t, 1200, 600), 0)
	if err != nil {
		t.Fatalf("LowFidelity: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != LowFidelityMaxSize || b.Dy() != LowFidelityMaxSize/2 {
		t.Fatalf("bounds = %v, want %dx%d", b, LowFidelityMaxSize, LowFidelityMaxSize/2)
	}

	small, err := LowFidelity(encodePNG(t, 100, 80), 512)
	if err != nil {
		t.Fatalf("LowFidelity small: %v", err)
	}
	img, _ = imaging.Decode(bytes.NewReader(small))
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("small bounds = %v", b)
	}
}

func TestLowFidelityRejectsGarbage(t *testing.T) {
	if _, err := LowFidelity([]byte("not an image"), 512); err == nil {
		t.Fatalf("expected decode error")
	}
}
