package shots

import (
	"math/rand"
	"time"

	"lookbook/internal/domain"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// poseSet is the pair of poses one build uses.
type poseSet struct {
	primary domain.PoseRef
	angled  domain.PoseRef
	// hasLibraryPrimary is false when the primary pose is plain text, in
	// which case no shot can use the skeletal reference.
	hasLibraryPrimary bool
}

func resolvePoses(req Request, rng *rand.Rand) poseSet {
	ps := poseSet{primary: domain.PoseRef{Text: req.PoseText}}
	if req.PrimaryPose != nil {
		ps.primary = req.PrimaryPose.Ref()
		if ps.primary.Text == "" {
			ps.primary.Text = req.PoseText
		}
		ps.hasLibraryPrimary = ps.primary.PoseID != ""
	}
	ps.angled = pickAngled(req.Library, req.Gender, ps.primary, rng)
	return ps
}

// pickAngled chooses one angled pose for the gender at random. With no
// candidate the primary pose text is reused without its library handle.
func pickAngled(library []domain.Pose, gender domain.Gender, primary domain.PoseRef, rng *rand.Rand) domain.PoseRef {
	var candidates []domain.Pose
	for _, p := range library {
		if p.Gender == gender && p.HasTag(domain.AngledPoseTag) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return domain.PoseRef{Text: primary.Text}
	}
	p := candidates[rng.Intn(len(candidates))]
	// Stickman references belong to the primary pose only.
	return domain.PoseRef{Text: p.Text, PoseID: p.ID}
}

func (ps poseSet) forView(v domain.View) domain.PoseRef {
	if v.IsAngled() {
		return ps.angled
	}
	return ps.primary
}

func (ps poseSet) usesStickman(ref domain.PoseRef) bool {
	return ps.hasLibraryPrimary && ref.PoseID == ps.primary.PoseID && ref.Text == ps.primary.Text
}
