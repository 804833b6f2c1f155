package geom

import "fmt"

// Volume is the size of the tower space: width along x, depth along y and
// height along the vertical axis.
type Volume struct {
	Width  int `json:"width" toml:"width" yaml:"width"`
	Depth  int `json:"depth" toml:"depth" yaml:"depth"`
	Height int `json:"height" toml:"height" yaml:"height"`
}

// VolumeFromArray reads the [width, depth, height] triple used on the wire.
func VolumeFromArray(a [3]int) Volume {
	return Volume{Width: a[0], Depth: a[1], Height: a[2]}
}

// Array returns the [width, depth, height] triple.
func (v Volume) Array() [3]int { return [3]int{v.Width, v.Depth, v.Height} }

// Empty reports whether any dimension is non-positive.
func (v Volume) Empty() bool { return v.Width <= 0 || v.Depth <= 0 || v.Height <= 0 }

func (v Volume) String() string {
	return fmt.Sprintf("%dx%dx%d", v.Width, v.Depth, v.Height)
}
