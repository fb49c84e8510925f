// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/yolo-viewer/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	// IoUThreshold is the largest overlap two kept boxes may have.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold" koanf:"iouthreshold"`
	// ClassAware suppresses only within the same class. When false every box
	// competes with every other box regardless of class.
	ClassAware bool `json:"class_aware" yaml:"class_aware" koanf:"classaware"`
}

// SuppressIndices runs greedy Non-Maximum Suppression and reports which
// candidates survive.
//
// Candidates are visited by descending score. Equal scores keep their input
// order, so the outcome is deterministic for identical input. A candidate is
// kept when its IoU with every already kept candidate (of the same class when
// ClassAware is set) is at most IoUThreshold.
//
// Arguments:
//   - candidates: Detections in any order.
//   - config: NMS configuration.
//
// Returns:
//   - A keep mask aligned with candidates.
func SuppressIndices(candidates []Result, config *NMSConfig) []bool {
	n := len(candidates)
	keep := make([]bool, n)
	if n == 0 {
		return keep
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].Score > candidates[order[b]].Score
	})

	kept := make([]int, 0, n)
	for _, i := range order {
		suppressed := false
		for _, j := range kept {
			if config.ClassAware && candidates[i].Class != candidates[j].Class {
				continue
			}
			if images.CalculateIoU(candidates[i].Box, candidates[j].Box) > config.IoUThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			keep[i] = true
			kept = append(kept, i)
		}
	}

	return keep
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Arguments:
//   - detections: Slice of detections in any order.
//   - config: NMS configuration.
//
// Returns:
//   - The surviving detections sorted by descending confidence. If no
//     detections are provided, returns nil.
func ApplyGreedyNMS(detections []Result, config *NMSConfig) []Result {
	if len(detections) == 0 {
		return nil
	}

	keep := SuppressIndices(detections, config)
	filtered := make([]Result, 0, len(detections))
	for i, d := range detections {
		if keep[i] {
			filtered = append(filtered, d)
		}
	}

	sort.SliceStable(filtered, func(a, b int) bool {
		return filtered[a].Score > filtered[b].Score
	})
	return filtered
}
