package visualization

import "math"

// normalizePositions rescales raw positions into the padded canvas.
// Axes with no spread are pinned to the canvas middle.
func normalizePositions(positions map[uint64]Position, width, height, padding float64) map[uint64]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	scaled := make(map[uint64]Position, len(positions))
	for id, pos := range positions {
		scaled[id] = Position{
			X: rescale(pos.X, minX, maxX, width, padding),
			Y: rescale(pos.Y, minY, maxY, height, padding),
		}
	}
	return scaled
}

// rescale maps v from [lo, hi] onto [padding, extent-padding].
func rescale(v, lo, hi, extent, padding float64) float64 {
	span := hi - lo
	if span < 1e-9 {
		return extent / 2
	}
	return padding + (v-lo)/span*(extent-2*padding)
}

// centeredPosition places a lone node in the canvas middle.
func centeredPosition(id uint64, config *LayoutConfig) map[uint64]Position {
	return map[uint64]Position{
		id: {X: config.Width / 2, Y: config.Height / 2},
	}
}
