package site

// MaxStars is the length of the rating scale.
const MaxStars = 5

// Stars splits a rating into filled and empty glyph counts. Ratings are clamped to
// [0, MaxStars] so the two counts always sum to MaxStars.
func Stars(rating int) (filled, remainder int) {
	switch {
	case rating < 0:
		filled = 0
	case rating > MaxStars:
		filled = MaxStars
	default:
		filled = rating
	}
	return filled, MaxStars - filled
}
