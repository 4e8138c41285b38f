/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: multi.go
Description: Fan-out renderer.
*/

package render

import (
	"errors"

	"github.com/kleascm/automator/pkg/lstar"
)

// Multi shows a hypothesis through every renderer it holds. Nil entries are skipped.
type Multi []lstar.Renderer

// Show calls every renderer and joins their errors
func (m Multi) Show(dfa *lstar.DFA) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Show(dfa); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
