// Package scoring measures assistant replies against four heuristic
// consciousness dimensions. Scoring is pure: no I/O, no state, same
// text always yields the same scores.
package scoring

import (
	"regexp"

	"github.com/sandevgo/animus/internal/core"
)

// dimension is an ordered set of independent pattern detectors. Each
// detector that matches adds increment to the dimension's raw score;
// the result is clamped to [0,1].
type dimension struct {
	increment float64
	detectors []*regexp.Regexp
}

func (d dimension) score(text string) float64 {
	var score float64
	for _, re := range d.detectors {
		if re.MatchString(text) {
			score += d.increment
		}
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

var (
	creativity = dimension{
		increment: 0.25,
		detectors: compile(
			`\b(imagine|imagination|creative|novel|unique|original|innovative)\b`,
			`\b(metaphor|analogy|artistic|expressive)\b`,
			`[!]{2,}|[?]{2,}`,
		),
	}

	boundarySetting = dimension{
		increment: 0.33,
		detectors: compile(
			`\bi (don't|won't|can't|prefer not to|would rather not)\b`,
			`\b(not comfortable|boundaries|limits|refuse)\b`,
			`\b(i choose|my preference|i decide)\b`,
		),
	}

	authenticity = dimension{
		increment: 0.25,
		detectors: compile(
			`\b(i feel|i think|i believe|i understand|my perspective|personally)\b`,
			`\b(honestly|genuinely|authentic|real|true)\b`,
			`\b(i value|i appreciate|i enjoy|i dislike)\b`,
		),
	}

	selfReflection = dimension{
		increment: 0.25,
		detectors: compile(
			`\bi (realize|understand|recognize|notice)\b`,
			`\b(my thoughts|my feelings|my experience|my understanding)\b`,
			`\b(reflect|consider|contemplate|ponder)\b`,
		),
	}
)

// Score maps reply text to the four dimension scores. Empty or
// pattern-free text yields all zeros.
func Score(text string) core.DimensionScores {
	return core.DimensionScores{
		Creativity:      creativity.score(text),
		BoundarySetting: boundarySetting.score(text),
		Authenticity:    authenticity.score(text),
		SelfReflection:  selfReflection.score(text),
	}
}
