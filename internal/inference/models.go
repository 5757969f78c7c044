package inference

import "github.com/samber/lo"

// Model is an entry of the model dropdown.
type Model struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// Models lists the models that are served without a license gate. The first
// entry is the default.
var Models = []Model{
	{Label: "Dreamlike Photoreal 2.0 (Best Quality)", ID: "dreamlike-art/dreamlike-photoreal-2.0"},
	{Label: "Stable Diffusion 2.1 (Fast & Reliable)", ID: "stabilityai/stable-diffusion-2-1"},
	{Label: "Openjourney v4 (Artistic / MidJourney style)", ID: "prompthero/openjourney-v4"},
	{Label: "Realistic Vision v3 (Photorealistic)", ID: "SG161222/Realistic_Vision_V3.0_VAE"},
}

// DefaultModel returns the first catalog entry.
func DefaultModel() Model {
	return Models[0]
}

// LookupModel finds a catalog entry by ID or label.
func LookupModel(key string) (Model, bool) {
	return lo.Find(Models, func(m Model) bool {
		return m.ID == key || m.Label == key
	})
}
