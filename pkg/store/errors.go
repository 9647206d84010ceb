package store

import "fmt"

// ArtifactNotFoundError represents an error when a requested run artifact
// does not exist in the bucket.
type ArtifactNotFoundError struct {
	Dataset string
	RunID   string
	Type    string
}

// Error implements error.
func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("no %s artifact found for run %s of dataset %s", e.Type, e.RunID, e.Dataset)
}
