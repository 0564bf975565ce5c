package calculator

// DefaultVolumeWindow is the averaging window for volume statistics.
const DefaultVolumeWindow = 20

// VolumeStats returns the mean of the last `window` volumes, rounded to a whole number,
// and the most recent volume.
func VolumeStats(volumes []float64, window int) (avg, current float64, ok bool) {
	if window <= 0 || len(volumes) < window {
		return 0, 0, false
	}
	return Round(mean(volumes[len(volumes)-window:]), 0), volumes[len(volumes)-1], true
}
