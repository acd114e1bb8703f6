// Package timeinterval содержит арифметику полуоткрытых интервалов [start, end) внутри одних суток.
package timeinterval

import (
	"errors"

	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

// ErrMissingBound возвращается, если одна из границ интервала не задана
var ErrMissingBound = errors.New("timeinterval: interval bound is not set")

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Интервалы пересекаются тогда и только тогда, когда startA < endB и startB < endA.
// Интервалы, которые стыкуются границами (endA == startB), не пересекаются.
func Overlaps(startA, endA, startB, endB types.TimeString) (bool, error) {
	if startA.IsZero() || endA.IsZero() || startB.IsZero() || endB.IsZero() {
		return false, ErrMissingBound
	}
	return startA.IsBefore(endB) && startB.IsBefore(endA), nil
}
