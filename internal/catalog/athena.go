package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"golang.org/x/sync/semaphore"

	"github.com/riseshia/athenadef/internal/logger"
)

const defaultPollInterval = 2 * time.Second

// errQueryFailed marks a query the service accepted but then rejected; the
// wrapped message is the service's own state change reason.
var errQueryFailed = errors.New("query execution failed")

// athenaAPI is the slice of the Athena client the runner uses.
type athenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	StopQueryExecution(ctx context.Context, params *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

// queryRunner executes Athena queries synchronously: it submits a query,
// polls the execution status until terminal, and fetches the result rows.
// A weighted semaphore bounds how many queries are in flight at once.
type queryRunner struct {
	client         athenaAPI
	workgroup      string
	outputLocation string
	timeout        time.Duration
	pollInterval   time.Duration
	sem            *semaphore.Weighted
	cleaner        *resultCleaner
}

// queryResult holds the rows of a completed query. Each row is the list of
// column values as strings.
type queryResult struct {
	executionID string
	rows        [][]string
}

func newQueryRunner(client athenaAPI, workgroup, outputLocation string, timeout time.Duration, maxConcurrent int, cleaner *resultCleaner) *queryRunner {
	return &queryRunner{
		client:         client,
		workgroup:      workgroup,
		outputLocation: outputLocation,
		timeout:        timeout,
		pollInterval:   defaultPollInterval,
		sem:            semaphore.NewWeighted(int64(maxConcurrent)),
		cleaner:        cleaner,
	}
}

// run executes a single query under the concurrency budget and waits for it
// to complete or time out.
func (r *queryRunner) run(ctx context.Context, query string) (*queryResult, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	executionID, err := r.start(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := r.waitForCompletion(ctx, executionID); err != nil {
		return nil, err
	}

	result, err := r.fetchResults(ctx, executionID)
	if err != nil {
		return nil, err
	}

	r.cleanupResult(ctx, executionID)
	return result, nil
}

func (r *queryRunner) start(ctx context.Context, query string) (string, error) {
	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(query),
		WorkGroup:   aws.String(r.workgroup),
	}
	if r.outputLocation != "" {
		input.ResultConfiguration = &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(r.outputLocation),
		}
	}

	out, err := r.client.StartQueryExecution(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to start query execution: %w", err)
	}
	if out.QueryExecutionId == nil {
		return "", fmt.Errorf("no query execution ID returned")
	}
	return *out.QueryExecutionId, nil
}

// waitForCompletion polls the execution status with a fixed interval until it
// reaches a terminal state or the per-query timeout elapses. On timeout or
// cancellation the execution is stopped through the service's own cancel
// primitive before returning.
func (r *queryRunner) waitForCompletion(ctx context.Context, executionID string) error {
	waitCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for {
		out, err := r.client.GetQueryExecution(waitCtx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(executionID),
		})
		if err != nil {
			if waitCtx.Err() != nil {
				r.stop(executionID)
				return r.deadlineError(ctx, waitCtx)
			}
			return fmt.Errorf("failed to get query execution status: %w", err)
		}

		var state athenatypes.QueryExecutionState
		var reason string
		if out.QueryExecution != nil && out.QueryExecution.Status != nil {
			state = out.QueryExecution.Status.State
			reason = aws.ToString(out.QueryExecution.Status.StateChangeReason)
		}

		switch state {
		case athenatypes.QueryExecutionStateSucceeded:
			return nil
		case athenatypes.QueryExecutionStateFailed:
			if reason == "" {
				reason = "unknown error"
			}
			return fmt.Errorf("%w: %s", errQueryFailed, reason)
		case athenatypes.QueryExecutionStateCancelled:
			return fmt.Errorf("query execution was cancelled")
		}

		select {
		case <-waitCtx.Done():
			r.stop(executionID)
			return r.deadlineError(ctx, waitCtx)
		case <-time.After(r.pollInterval):
		}
	}
}

func (r *queryRunner) deadlineError(parent, waitCtx context.Context) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	return fmt.Errorf("query execution timed out after %s: %w", r.timeout, waitCtx.Err())
}

// stop cancels a running execution. Uses a fresh context because the caller's
// context is already done when stop is called.
func (r *queryRunner) stop(executionID string) {
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := r.client.StopQueryExecution(stopCtx, &athena.StopQueryExecutionInput{
		QueryExecutionId: aws.String(executionID),
	})
	if err != nil {
		logger.Get().Debug("failed to stop query execution", "execution_id", executionID, "error", err)
	}
}

func (r *queryRunner) fetchResults(ctx context.Context, executionID string) (*queryResult, error) {
	result := &queryResult{executionID: executionID}
	var nextToken *string

	for {
		out, err := r.client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(executionID),
			NextToken:        nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get query results: %w", err)
		}

		if out.ResultSet != nil {
			for _, row := range out.ResultSet.Rows {
				columns := make([]string, 0, len(row.Data))
				for _, datum := range row.Data {
					columns = append(columns, aws.ToString(datum.VarCharValue))
				}
				result.rows = append(result.rows, columns)
			}
		}

		nextToken = out.NextToken
		if nextToken == nil {
			return result, nil
		}
	}
}

// cleanupResult deletes the query's result object from S3, best effort. Only
// applies when an explicit output location is configured.
func (r *queryRunner) cleanupResult(ctx context.Context, executionID string) {
	if r.cleaner == nil || r.outputLocation == "" {
		return
	}

	out, err := r.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(executionID),
	})
	if err != nil || out.QueryExecution == nil || out.QueryExecution.ResultConfiguration == nil {
		return
	}
	location := aws.ToString(out.QueryExecution.ResultConfiguration.OutputLocation)
	if location == "" {
		return
	}
	r.cleaner.cleanup(ctx, location)
}
