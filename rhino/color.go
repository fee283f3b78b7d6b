package rhino

// Color carries a layer color in one of the two forms readers are known to
// produce: an ordered channel tuple or a structured object with named
// channels. Exactly one of Tuple and Channels is set.
type Color struct {
	// Tuple is the ordered form: (R, G, B) or (R, G, B, A).
	Tuple []int
	// Channels is the structured form. A nil channel means the reader did
	// not expose it.
	Channels *ColorChannels
}

type ColorChannels struct {
	A *int
	R *int
	G *int
	B *int
}

// ARGB normalizes the color to [alpha, red, green, blue]. Missing alpha
// defaults to 255, missing color channels to 0. ok=false means the value is
// in neither known representation.
func (c Color) ARGB() ([]int, bool) {
	if c.Channels != nil {
		return []int{
			channelOr(c.Channels.A, 255),
			channelOr(c.Channels.R, 0),
			channelOr(c.Channels.G, 0),
			channelOr(c.Channels.B, 0),
		}, true
	}
	switch {
	case len(c.Tuple) >= 4:
		return []int{c.Tuple[3], c.Tuple[0], c.Tuple[1], c.Tuple[2]}, true
	case len(c.Tuple) == 3:
		return []int{255, c.Tuple[0], c.Tuple[1], c.Tuple[2]}, true
	}
	return nil, false
}

func channelOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
