// Package eval accumulates classification and regression statistics over
// predicted and actual label batches.
package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strata-ml/strata/internal/ndarray"
)

// Evaluation accumulates a confusion matrix over batches of predictions.
//
// Eval expects [batch, numClasses] probability (or score) rows for both
// predictions and labels; the argmax of each row is the class. With a top-n
// greater than 1, a prediction also counts as a hit for TopNAccuracy when
// the true class appears among the n highest-scoring classes.
type Evaluation struct {
	numClasses int
	labels     []string
	topN       int

	confusion [][]int
	topNHits  int
	total     int
}

// NewEvaluation creates an evaluation over numClasses classes.
func NewEvaluation(numClasses int) *Evaluation {
	return NewEvaluationTopN(numClasses, 1)
}

// NewEvaluationWithLabels creates an evaluation with display names per class.
func NewEvaluationWithLabels(labels []string) *Evaluation {
	e := NewEvaluation(len(labels))
	e.labels = append([]string(nil), labels...)
	return e
}

// NewEvaluationTopN creates an evaluation that also tracks top-n accuracy.
func NewEvaluationTopN(numClasses, topN int) *Evaluation {
	if topN < 1 {
		topN = 1
	}
	confusion := make([][]int, numClasses)
	for i := range confusion {
		confusion[i] = make([]int, numClasses)
	}
	return &Evaluation{numClasses: numClasses, topN: topN, confusion: confusion}
}

// SetLabels attaches display names per class, used by Stats.
func (e *Evaluation) SetLabels(labels []string) {
	e.labels = append([]string(nil), labels...)
}

// Eval folds one batch of predictions against its labels into the counters.
func (e *Evaluation) Eval(labels, predictions *ndarray.Array) error {
	if labels == nil || predictions == nil {
		return fmt.Errorf("eval: labels and predictions must not be nil")
	}
	ls, ps := labels.Shape(), predictions.Shape()
	if len(ls) != 2 || len(ps) != 2 || ls[0] != ps[0] || ls[1] != e.numClasses || ps[1] != e.numClasses {
		return fmt.Errorf("eval: expected [batch, %d] labels and predictions, got %v and %v",
			e.numClasses, ls, ps)
	}

	lData := labels.AsFloat32()
	pData := predictions.AsFloat32()
	rows := ls[0]

	for r := 0; r < rows; r++ {
		actual := argmaxRow(lData[r*e.numClasses : (r+1)*e.numClasses])
		pRow := pData[r*e.numClasses : (r+1)*e.numClasses]
		predicted := argmaxRow(pRow)

		e.confusion[actual][predicted]++
		e.total++
		if e.inTopN(pRow, actual) {
			e.topNHits++
		}
	}
	return nil
}

func (e *Evaluation) inTopN(scores []float32, actual int) bool {
	if e.topN == 1 {
		return argmaxRow(scores) == actual
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	n := e.topN
	if n > len(idx) {
		n = len(idx)
	}
	for _, i := range idx[:n] {
		if i == actual {
			return true
		}
	}
	return false
}

// Accuracy returns the fraction of examples whose argmax prediction matched
// the true class.
func (e *Evaluation) Accuracy() float64 {
	if e.total == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < e.numClasses; i++ {
		correct += e.confusion[i][i]
	}
	return float64(correct) / float64(e.total)
}

// TopNAccuracy returns the fraction of examples whose true class appeared in
// the top n predictions.
func (e *Evaluation) TopNAccuracy() float64 {
	if e.total == 0 {
		return 0
	}
	return float64(e.topNHits) / float64(e.total)
}

// TopN returns the configured n for TopNAccuracy.
func (e *Evaluation) TopN() int {
	return e.topN
}

// NumExamples returns the number of examples folded in so far.
func (e *Evaluation) NumExamples() int {
	return e.total
}

// Confusion returns the accumulated confusion matrix, indexed
// [actual][predicted].
func (e *Evaluation) Confusion() [][]int {
	return e.confusion
}

// Stats renders a summary of the accumulated counters.
func (e *Evaluation) Stats() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "examples: %d\n", e.total)
	fmt.Fprintf(&sb, "accuracy: %.4f\n", e.Accuracy())
	if e.topN > 1 {
		fmt.Fprintf(&sb, "top-%d accuracy: %.4f\n", e.topN, e.TopNAccuracy())
	}
	sb.WriteString("confusion (rows actual, cols predicted):\n")
	for i, row := range e.confusion {
		name := fmt.Sprintf("%d", i)
		if i < len(e.labels) {
			name = e.labels[i]
		}
		fmt.Fprintf(&sb, "  %-10s %v\n", name, row)
	}
	return sb.String()
}

func argmaxRow(row []float32) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}
