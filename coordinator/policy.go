package coordinator

import "github.com/BaSui01/researchflow/state"

// Decision is the outcome of the continuation policy after one evidence
// round.
type Decision string

const (
	// DecisionContinue runs another evidence round.
	DecisionContinue Decision = "continue"
	// DecisionFinalize moves straight to report generation.
	DecisionFinalize Decision = "finalize"
)

// Continuation thresholds.
const (
	// QualityThreshold finalizes once the research quality score reaches it.
	QualityThreshold = 0.8
	// FindingsTarget finalizes once this many findings have accumulated.
	FindingsTarget = 10
)

// Decide applies the continuation policy to the task record. It is a pure
// function of the record: same state, same decision. Finalization wins when
// any bound is reached; otherwise research continues.
func Decide(task *state.TaskState) Decision {
	if task.Iteration >= task.MaxIterations {
		return DecisionFinalize
	}
	if task.QualityScore >= QualityThreshold {
		return DecisionFinalize
	}
	if len(task.KeyFindings) >= FindingsTarget {
		return DecisionFinalize
	}
	return DecisionContinue
}
