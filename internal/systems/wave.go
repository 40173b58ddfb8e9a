package systems

import "math"

const msPerMinute = 60000

// WaveAt = floor(elapsed / (minutes * 60000)) + 1.
// Неположительная длительность волны означает, что волна всегда первая.
func WaveAt(elapsedMs int64, minutesPerWave float64) int {
	if minutesPerWave <= 0 || math.IsNaN(minutesPerWave) || elapsedMs < 0 {
		return 1
	}
	return int(math.Floor(float64(elapsedMs)/(minutesPerWave*msPerMinute))) + 1
}

// WaveTracker хранит текущую волну. Волна только растёт.
type WaveTracker struct {
	Current        int
	MinutesPerWave float64
}

func NewWaveTracker(minutesPerWave float64) WaveTracker {
	return WaveTracker{Current: 1, MinutesPerWave: minutesPerWave}
}

// Advance пересчитывает волну. changed == true только при росте номера.
func (w *WaveTracker) Advance(elapsedMs int64) (int, bool) {
	next := WaveAt(elapsedMs, w.MinutesPerWave)
	if next <= w.Current {
		return w.Current, false
	}
	w.Current = next
	return next, true
}
