package video

import "fmt"

// Resolution describes one entry of the robot's camera resolution
// enumeration: the vendor index plus the pixel dimensions it maps to.
type Resolution struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d)", r.Name, r.Width, r.Height)
}

// PixelCount returns the number of pixels per frame at this resolution.
func (r Resolution) PixelCount() int {
	return r.Width * r.Height
}

// resolutions maps vendor resolution indices to their definitions.
var resolutions = map[int]Resolution{
	ResolutionQQVGA: {Index: ResolutionQQVGA, Name: "QQVGA", Width: 160, Height: 120},
	ResolutionQVGA:  {Index: ResolutionQVGA, Name: "QVGA", Width: 320, Height: 240},
	ResolutionVGA:   {Index: ResolutionVGA, Name: "VGA", Width: 640, Height: 480},
	Resolution4VGA:  {Index: Resolution4VGA, Name: "4VGA", Width: 1280, Height: 960},
}

// ResolutionByIndex looks up a resolution definition by its vendor index.
func ResolutionByIndex(idx int) (Resolution, error) {
	res, ok := resolutions[idx]
	if !ok {
		return Resolution{}, fmt.Errorf("video: unknown resolution index %d", idx)
	}
	return res, nil
}

// ResolutionName returns the conventional name for a resolution index, or a
// numeric placeholder for indices outside the known enumeration.
func ResolutionName(idx int) string {
	if res, ok := resolutions[idx]; ok {
		return res.Name
	}
	return fmt.Sprintf("resolution-%d", idx)
}
