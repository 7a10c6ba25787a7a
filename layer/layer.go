/*
Package layer implements an ordered stack of updatable, drawable layers.

Layers at the front of the stack are updated and drawn first, so later
layers are drawn on top.
*/
package layer

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNotFound is returned when removing a layer that is not in the stack.
var ErrNotFound = errors.New("layer: not found")

// Drawable is anything updated and drawn once per frame.
type Drawable interface {
	// Update advances the drawable by dt seconds.
	Update(dt float64) error
	Draw(screen *ebiten.Image)
}

// Layer is a Drawable that is told when it joins and leaves a Stack.
type Layer interface {
	Drawable

	// Enter is called when the layer is added to a stack. The layer is
	// not added if it returns an error.
	Enter() error
	// Exit is called when the layer is removed from a stack.
	Exit()
}

// Stack is an ordered list of layers. The zero value is an empty stack.
type Stack struct {
	layers []Layer
}

// Add enters l and appends it to the back of the stack.
func (s *Stack) Add(l Layer) error {
	if err := l.Enter(); err != nil {
		return err
	}
	s.layers = append(s.layers, l)
	return nil
}

// Put enters l and inserts it at the front of the stack.
func (s *Stack) Put(l Layer) error {
	if err := l.Enter(); err != nil {
		return err
	}
	s.layers = append([]Layer{l}, s.layers...)
	return nil
}

// Remove exits l and removes it from the stack.
func (s *Stack) Remove(l Layer) error {
	for i := range s.layers {
		if s.layers[i] == l {
			return s.RemoveAt(i)
		}
	}
	return ErrNotFound
}

// RemoveAt exits and removes the layer at index i.
func (s *Stack) RemoveAt(i int) error {
	if i < 0 || i >= len(s.layers) {
		return ErrNotFound
	}
	l := s.layers[i]
	l.Exit()
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	return nil
}

// Pop removes the layer at the front of the stack, if any.
func (s *Stack) Pop() {
	if len(s.layers) > 0 {
		_ = s.RemoveAt(0)
	}
}

// First returns the layer at the front of the stack, or nil.
func (s *Stack) First() Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[0]
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Update updates every layer in order, stopping at the first error.
func (s *Stack) Update(dt float64) error {
	for _, l := range s.layers {
		if err := l.Update(dt); err != nil {
			return err
		}
	}
	return nil
}

// Draw draws every layer in order onto screen.
func (s *Stack) Draw(screen *ebiten.Image) {
	for _, l := range s.layers {
		l.Draw(screen)
	}
}
