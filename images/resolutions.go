package images

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
)

// ResolutionType names a common capture resolution.
type ResolutionType string

// Capture resolutions accepted for cameras.
const (
	ResolutionTypeNHD      ResolutionType = "360p"
	ResolutionTypeVGA      ResolutionType = "480p"
	ResolutionTypeQHD540   ResolutionType = "540p"
	ResolutionTypeHD720p   ResolutionType = "720p"
	ResolutionTypeFHD1080p ResolutionType = "1080p"
	ResolutionTypeQHD1440p ResolutionType = "1440p"
	ResolutionType4KUHD    ResolutionType = "2160p"
)

// Resolution is a named frame size.
type Resolution struct {
	Name   ResolutionType `json:"name"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
}

// Size returns the resolution as a point.
func (r Resolution) Size() image.Point {
	return image.Point{X: r.Width, Y: r.Height}
}

// MegaPixels returns the pixel count in millions, rounded to two decimals.
func (r Resolution) MegaPixels() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Width*r.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Width, r.Height, r.MegaPixels())
}

var resolutions = map[ResolutionType]Resolution{
	ResolutionTypeNHD:      {Name: ResolutionTypeNHD, Width: 640, Height: 360},
	ResolutionTypeVGA:      {Name: ResolutionTypeVGA, Width: 640, Height: 480},
	ResolutionTypeQHD540:   {Name: ResolutionTypeQHD540, Width: 960, Height: 540},
	ResolutionTypeHD720p:   {Name: ResolutionTypeHD720p, Width: 1280, Height: 720},
	ResolutionTypeFHD1080p: {Name: ResolutionTypeFHD1080p, Width: 1920, Height: 1080},
	ResolutionTypeQHD1440p: {Name: ResolutionTypeQHD1440p, Width: 2560, Height: 1440},
	ResolutionType4KUHD:    {Name: ResolutionType4KUHD, Width: 3840, Height: 2160},
}

// Resolutions returns every known resolution, smallest first.
func Resolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Width*all[i].Height < all[j].Width*all[j].Height
	})
	return all
}

// LookupResolution finds a resolution by name, ignoring case.
func LookupResolution(name string) (Resolution, bool) {
	res, ok := resolutions[ResolutionType(strings.ToLower(strings.TrimSpace(name)))]
	return res, ok
}
