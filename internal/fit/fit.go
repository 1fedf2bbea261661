// Package fit computes the non-upscaling proportional scale used to display
// the background image inside the available viewport.
package fit

// Scale returns min(viewW/imgW, viewH/imgH, 1). The cap at 1 keeps the image
// at native resolution or below; annotations are stored in image coordinates
// so the scale only affects display. Non-positive dimensions yield 0, which
// callers treat as "nothing to show".
func Scale(imgW, imgH, viewW, viewH int) float64 {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0
	}
	sx := float64(viewW) / float64(imgW)
	sy := float64(viewH) / float64(imgH)
	s := sx
	if sy < s {
		s = sy
	}
	if s > 1 {
		s = 1
	}
	return s
}

// Size returns the displayed width and height of an image scaled to fit the
// viewport.
func Size(imgW, imgH, viewW, viewH int) (w, h int) {
	s := Scale(imgW, imgH, viewW, viewH)
	return int(float64(imgW) * s), int(float64(imgH) * s)
}
