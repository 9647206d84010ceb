package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// RunArtifact represents a single artifact from a validation run: the JSON
// report, the CSV export or the run log.
type RunArtifact struct {
	Dataset   string    `json:"dataset"`
	RunID     string    `json:"runId"`
	Type      string    `json:"type"` // json, csv, log
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Content   []byte    `json:"content"`
}

// ReportsRepo implements Repository for run artifacts.
type ReportsRepo struct {
	BaseRepo
}

// NewReportsRepo creates a new ReportsRepo.
func NewReportsRepo(ctx context.Context, log *logrus.Logger, cfg *S3Config, metrics *Metrics) (*ReportsRepo, error) {
	baseRepo, err := NewBaseRepo(ctx, log, cfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create base repo: %w", err)
	}

	return &ReportsRepo{
		BaseRepo: baseRepo,
	}, nil
}

// List implements Repository[*RunArtifact]. Content is not fetched; use
// GetArtifact for that.
func (s *ReportsRepo) List(ctx context.Context) ([]*RunArtifact, error) {
	defer s.trackDuration("list", "reports")()

	var (
		artifacts []*RunArtifact
		input     = &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(fmt.Sprintf("%s/fabrics/", s.prefix)),
		}
		paginator = s3.NewListObjectsV2Paginator(s.store, input)
	)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.observeOperation("list", "reports", err)

			return nil, fmt.Errorf("failed to list artifacts: %w", err)
		}

		for _, obj := range page.Contents {
			if !strings.Contains(*obj.Key, "/runs/") {
				continue
			}

			// Format: prefix/fabrics/{dataset}/runs/{runID}.{ext}
			parts := strings.Split(*obj.Key, "/")
			if len(parts) < 4 {
				continue
			}

			var (
				fileName = parts[len(parts)-1]
				dataset  = parts[len(parts)-3]
				ext      = ""
			)

			if idx := strings.LastIndex(fileName, "."); idx >= 0 {
				ext = fileName[idx+1:]
				fileName = fileName[:idx]
			}

			artifacts = append(artifacts, &RunArtifact{
				Dataset:   dataset,
				RunID:     fileName,
				Type:      ext,
				CreatedAt: *obj.LastModified,
				UpdatedAt: *obj.LastModified,
			})
		}
	}

	s.setObjectsTotal("reports", len(artifacts))
	s.observeOperation("list", "reports", nil)

	return artifacts, nil
}

// Persist implements Repository[*RunArtifact].
func (s *ReportsRepo) Persist(ctx context.Context, artifact *RunArtifact) error {
	defer s.trackDuration("persist", "reports")()

	put := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(artifact)),
	}

	if len(artifact.Content) > 0 {
		contentType := http.DetectContentType(artifact.Content)

		put.Body = bytes.NewReader(artifact.Content)
		put.ContentType = aws.String(contentType)

		s.observeObjectSize("reports", len(artifact.Content))
	}

	if _, err := s.store.PutObject(ctx, put); err != nil {
		s.observeOperation("persist", "reports", err)

		return fmt.Errorf("failed to put artifact: %w", err)
	}

	s.observeOperation("persist", "reports", nil)

	return nil
}

// Purge implements Repository[*RunArtifact]. It removes every artifact of
// the given run.
func (s *ReportsRepo) Purge(ctx context.Context, identifiers ...string) error {
	if len(identifiers) != 2 {
		return fmt.Errorf("expected dataset and runID identifiers, got %d identifiers", len(identifiers))
	}

	var (
		dataset, runID = identifiers[0], identifiers[1]
		prefix         = fmt.Sprintf("%s/fabrics/%s/runs/%s", s.prefix, dataset, runID)
		input          = &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(prefix),
		}
		paginator = s3.NewListObjectsV2Paginator(s.store, input)
	)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects for deletion: %w", err)
		}

		for _, obj := range page.Contents {
			if _, err := s.store.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				return fmt.Errorf("failed to delete object %s: %w", *obj.Key, err)
			}
		}
	}

	return nil
}

// Key implements Repository[*RunArtifact].
func (s *ReportsRepo) Key(artifact *RunArtifact) string {
	if artifact == nil {
		s.log.Error("artifact is nil")

		return ""
	}

	return fmt.Sprintf("%s/fabrics/%s/runs/%s.%s", s.prefix, artifact.Dataset, artifact.RunID, artifact.Type)
}

// GetArtifact retrieves an artifact, content included.
func (s *ReportsRepo) GetArtifact(ctx context.Context, dataset, runID, artifactType string) (*RunArtifact, error) {
	defer s.trackDuration("get", "reports")()

	key := fmt.Sprintf("%s/fabrics/%s/runs/%s.%s", s.prefix, dataset, runID, artifactType)

	output, err := s.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.observeOperation("get", "reports", err)

		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}

	defer output.Body.Close()

	content, err := io.ReadAll(output.Body)
	if err != nil {
		s.observeOperation("get", "reports", err)

		return nil, fmt.Errorf("failed to read artifact content: %w", err)
	}

	s.observeOperation("get", "reports", nil)
	s.observeObjectSize("reports", len(content))

	return &RunArtifact{
		Dataset:   dataset,
		RunID:     runID,
		Type:      artifactType,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Content:   content,
	}, nil
}

// GetBucket returns the S3 bucket name.
func (s *ReportsRepo) GetBucket() string {
	return s.bucket
}

// GetPrefix returns the S3 prefix.
func (s *ReportsRepo) GetPrefix() string {
	return s.prefix
}
