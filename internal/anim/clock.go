package anim

// ToLocal projects a global frame onto a scene starting at start. The result
// is not clamped: it is negative before the scene and runs past the scene's
// duration after it.
func ToLocal(global, start int) int {
	return global - start
}

// Seconds converts seconds to a whole frame count at fps, rounding to nearest.
func Seconds(s, fps float64) int {
	if s <= 0 || fps <= 0 {
		return 0
	}
	return int(s*fps + 0.5)
}
