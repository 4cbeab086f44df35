package render

import (
	"image/color"
	"math"
)

// srgbToLinear decodes an 8-bit sRGB channel
func srgbToLinear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// linearToSRGB encodes a linear channel in [0,1]
func linearToSRGB(v float64) uint8 {
	v = clamp(v, 0, 1)
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math.Round(v * 255))
}

// acesFilmic is the Narkowicz fit of the ACES filmic curve
func acesFilmic(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return clamp((x*(a*x+b))/(x*(c*x+d)+e), 0, 1)
}

// shade lights an sRGB base color with intensity, then tone maps and re-encodes it
func shade(base color.RGBA, intensity, exposure float64) color.RGBA {
	channel := func(c uint8) uint8 {
		return linearToSRGB(acesFilmic(srgbToLinear(c) * intensity * exposure))
	}
	return color.RGBA{channel(base.R), channel(base.G), channel(base.B), 0xff}
}
