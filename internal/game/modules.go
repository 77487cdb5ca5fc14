package game

import (
	"fmt"

	"github.com/ayusman/handplay/internal/gesture"
)

// CountingTargets are the numbers the counting game asks for, in order.
var CountingTargets = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// ShapeSequence is the order in which the shapes game asks for shapes.
var ShapeSequence = []gesture.Label{gesture.Square, gesture.Rectangle}

// NewCounting creates the counting game: show 1 to 10 fingers in turn.
func NewCounting(opts Options) *Driver[int] {
	return NewDriver(ModuleCounting, CountingTargets, func(n int) string {
		return fmt.Sprintf("number_%d", n)
	}, opts)
}

// NewSocial creates the social skills game over gesture.SocialSequence.
func NewSocial(opts Options) *Driver[gesture.Label] {
	return NewDriver(ModuleSocial, gesture.SocialSequence, labelActivity, opts)
}

// NewShapes creates the shapes game: one open hand, then two.
func NewShapes(opts Options) *Driver[gesture.Label] {
	return NewDriver(ModuleShapes, ShapeSequence, labelActivity, opts)
}

func labelActivity(l gesture.Label) string {
	return string(l)
}
