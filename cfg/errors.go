package cfg

import "fmt"

// CfgErrorKind enumerates the non-recoverable CFG-build failures
// (spec.md §7 tier 2): returned in place of a CFG, not accumulated.
type CfgErrorKind int

const (
	LabelsNotDefined CfgErrorKind = iota
	DuplicateLabel
	MultipleLabelsForReturn
	NoLabelForReturn
	UnexpectedError
	AssertionError
)

// CfgError is the error type every CFG-build failure is reported as.
type CfgError struct {
	Kind    CfgErrorKind
	Labels  []string
	Message string
}

func (e *CfgError) Error() string {
	switch e.Kind {
	case LabelsNotDefined:
		return fmt.Sprintf("labels not defined: %v", e.Labels)
	case DuplicateLabel:
		return fmt.Sprintf("duplicate label %q", e.Labels[0])
	case MultipleLabelsForReturn:
		return fmt.Sprintf("multiple labels for return: %v", e.Labels)
	case NoLabelForReturn:
		return "function has no return instruction"
	case AssertionError:
		return "assertion failed: " + e.Message
	default:
		return "unexpected cfg error: " + e.Message
	}
}
