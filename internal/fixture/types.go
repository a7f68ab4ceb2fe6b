package fixture

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Kind tags the concrete sink behind the common interface.
type Kind string

const (
	KindBoard  Kind = "board"
	KindLIFX   Kind = "lifx"
	KindElgato Kind = "elgato"
	KindHue    Kind = "hue"
)

// RGB is one fixture color, 8 bits per channel, no gamma applied.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Off is the all-channels-dark color.
var Off = RGB{}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSV converts to hue [0,360), saturation and value in [0,1], for sinks
// whose wire format is not RGB.
func (c RGB) HSV() (h, s, v float64) {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	return cf.Hsv()
}
