package entity

import (
	"math"
)

// MaxLineQuantity is the largest quantity a single cart line may hold.
const MaxLineQuantity = 9999

// ComponentUnits is perUnit × quantity, saturating at math.MaxInt.
// Non-positive factors yield zero.
func ComponentUnits(perUnit, quantity int) int {
	if perUnit <= 0 || quantity <= 0 {
		return 0
	}
	if quantity > math.MaxInt/perUnit {
		return math.MaxInt
	}

	return perUnit * quantity
}

// AddUnits adds two unit counts, saturating at math.MaxInt.
func AddUnits(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}

	return a + b
}
