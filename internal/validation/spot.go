package validation

import (
	"regexp"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"
)

const (
	TitleMinLen = 3
	TitleMaxLen = 20
	FloorMaxLen = 3

	DefaultFloor = "1"
)

var (
	ErrInvalidTitle = apperr.Validation("title must be 3-20 letters, digits, spaces or apostrophes")
	ErrInvalidFloor = apperr.Validation("floor must be 1-3 uppercase letters or digits")

	titlePattern = regexp.MustCompile(`^[A-Za-z0-9\s']+$`)
	floorPattern = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// CheckTitleAndFloor enforces the spot title and floor format. An empty floor
// means the floor was not given and is always accepted.
func CheckTitleAndFloor(title, floor string) error {
	if len(title) < TitleMinLen || len(title) > TitleMaxLen || !titlePattern.MatchString(title) {
		return ErrInvalidTitle
	}
	if floor == "" {
		return nil
	}
	if len(floor) > FloorMaxLen || !floorPattern.MatchString(floor) {
		return ErrInvalidFloor
	}
	return nil
}

// FloorOrDefault returns floor, or DefaultFloor when floor is empty.
func FloorOrDefault(floor string) string {
	if floor == "" {
		return DefaultFloor
	}
	return floor
}
