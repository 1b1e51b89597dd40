package model

// StepType classifies a chain position.
type StepType string

const (
	InputStepType  StepType = "input"
	NormalStepType StepType = "step"
	BranchStepType StepType = "branch"
	EachStepType   StepType = "each"
	FoldStepType   StepType = "fold"
)

// StepInfo describes one position in a built chain. It is purely
// descriptive: building a chain never executes anything.
type StepInfo struct {
	Type  StepType
	Name  string
	Index int

	// Branches holds the two possible record labels of a branch
	// position, then-branch first. Empty for every other type.
	Branches []string
}

// InputStep is the seed position every chain starts from. It is not
// part of the step sequence and never produces a timing record.
var InputStep = &StepInfo{Type: InputStepType, Name: "input", Index: -1}
