package compose

// Placement positions a scaled source image inside the target frame.
type Placement struct {
	Width  int
	Height int
	X      int
	Y      int
}

// PlacementFor computes the letterbox placement of a srcW x srcH image in a
// dstW x dstH frame. The scale factor is the smaller of the two axis ratios,
// capped at 1 so images are never enlarged. Scaled dimensions are floored
// with a one-pixel minimum, and the image is centered in the frame.
func PlacementFor(srcW, srcH, dstW, dstH int) Placement {
	scale := min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH), 1)

	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return Placement{
		Width:  w,
		Height: h,
		X:      (dstW - w) / 2,
		Y:      (dstH - h) / 2,
	}
}
