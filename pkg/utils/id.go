package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a study-run ID with a timestamp prefix so runs sort
// chronologically on disk
func GenerateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("run-%s-%s", timestamp, short)
}

// GenerateSubmissionID generates a unique ID for one condition submitted to
// the execution engine
func GenerateSubmissionID() string {
	return uuid.NewString()
}
