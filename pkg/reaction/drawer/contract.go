// Package drawer renders the structure of a built chain as a GraphViz
// graph, optionally heat-coloured by step duration.
package drawer

import (
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-reaction/pkg/reaction/model"
	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

// Drawer is an interface that defines the methods for drawing a chain.
type Drawer interface {
	// AddStep adds a step node to the chain graph.
	AddStep(stepName string) error
	// AddLink adds a link between parent and child steps.
	AddLink(parentStepName, childStepName string) error
	// ApplyTimings colours the executed steps by their relative
	// duration and labels them with it.
	ApplyTimings(log *timing.Log) error
	// Draw writes the chain graph.
	Draw(wrt io.Writer) error
}

// Build populates the drawer with the structure of a described chain:
// an input node, one node per position, branch positions fanning out
// into their two possible labels and rejoining at the next position.
func Build(drw Drawer, infos []model.StepInfo) error {
	err := drw.AddStep(model.InputStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add input step to drawer")
	}

	parents := []string{model.InputStep.Name}

	for _, info := range infos {
		names := []string{info.Name}
		if info.Type == model.BranchStepType {
			names = info.Branches
		}

		for _, name := range names {
			err := drw.AddStep(name)
			if err != nil {
				return errors.Wrapf(err, "unable to add step %s to drawer", name)
			}

			for _, parent := range parents {
				err := drw.AddLink(parent, name)
				if err != nil {
					return errors.Wrapf(err, "unable to link %s to %s", parent, name)
				}
			}
		}

		parents = names
	}

	return nil
}
