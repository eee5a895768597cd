package runner

import (
	"context"
	"errors"

	"github.com/autosci-lab/discovery-core/pkg/models"
)

// ErrNoResults indicates the engine finished without collecting any result
// blobs, for example when every remote submission timed out
var ErrNoResults = errors.New("execution produced no results")

// Submission is one condition packaged for execution
type Submission struct {
	ID        string
	Condition models.Row
	Payload   []byte
}

// Engine executes submissions against a subject pool and returns one raw
// result blob per completed submission. Engines may return fewer blobs than
// submissions (under-delivery); transport and protocol failures are errors.
// Execute blocks until results are collected or ctx is done.
type Engine interface {
	Execute(ctx context.Context, subs []Submission) ([][]byte, error)
}
