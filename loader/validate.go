package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/types"
)

// ValidationError collects all validation errors found in a content pack.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Validate checks a world for referential integrity. load runs it on
// every compiled pack; content packages that attach guards or hooks
// after loading should run it again.
func Validate(w *world.World) error {
	ve := &ValidationError{}

	if w.Meta.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}

	if w.Meta.Start == "" {
		ve.Errors = append(ve.Errors, "Game.start is required")
	} else if _, ok := w.Rooms[w.Meta.Start]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start room %q not found in defined rooms", w.Meta.Start))
	}

	for roomID, room := range w.Rooms {
		for dir, target := range room.Exits {
			if _, ok := w.Rooms[target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q exit %q points to undefined room %q", roomID, dir, target))
			}
		}
		// Guards only make sense on directions that exist.
		for dir := range room.ExitGuards {
			if _, ok := room.Exits[dir]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q guards direction %q but has no such exit", roomID, dir))
			}
		}
		for i, target := range room.Examine {
			if len(target.Keywords) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q examine entry %d has no keywords", roomID, i+1))
			}
		}
	}

	for objID, obj := range w.Objects {
		if obj.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("object %q has no name", objID))
		}
		if obj.Location != "" && obj.Location != types.LocInventory {
			if _, ok := w.Rooms[obj.Location]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"object %q location %q does not match any defined room", objID, obj.Location))
			}
		}
	}

	if w.WinRoom != "" {
		if _, ok := w.Rooms[w.WinRoom]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"win room %q not found in defined rooms", w.WinRoom))
		}
		if _, ok := w.Objects[w.WinObject]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"win object %q not found in defined objects", w.WinObject))
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
