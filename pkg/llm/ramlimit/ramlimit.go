// Package ramlimit gates local models by the community's RAM tier.
package ramlimit

import (
	"slices"
	"strings"

	"github.com/papercomputeco/disrello/pkg/model"
)

// Allowed lists the accepted RAM tiers in GB.
var Allowed = []int{2, 4, 8}

// estimates are conservative resident sizes in GB by base model name.
var estimates = map[string]float64{
	"phi3.5":      3.0,
	"tinyllama":   1.5,
	"tinydolphin": 2.0,

	"gemma3":        6.5,
	"mistral":       7.5,
	"nous-hermes2":  7.8,
	"wizard-vicuna": 7.8,

	"dolphin-mixtral": 14.0,
}

// Estimate returns the estimated RAM for name. Tag variants such as
// "mistral:latest" fall back to their base name. Matching ignores case.
func Estimate(name string) (float64, bool) {
	m := strings.ToLower(strings.TrimSpace(name))
	if m == "" {
		return 0, false
	}
	if gb, ok := estimates[m]; ok {
		return gb, true
	}
	base, _, _ := strings.Cut(m, ":")
	gb, ok := estimates[base]
	return gb, ok
}

// Fits reports whether name fits within ramGB. Unknown models never fit.
func Fits(name string, ramGB int) bool {
	gb, ok := Estimate(name)
	return ok && gb <= float64(ramGB)
}

// Normalize maps anything outside Allowed to the default tier.
func Normalize(ramGB int) int {
	return model.NormalizeRAMGB(ramGB)
}

// IsAllowed reports whether ramGB is one of the accepted tiers.
func IsAllowed(ramGB int) bool {
	return slices.Contains(Allowed, ramGB)
}
