// Package main contains the Lambda warmup handler for preventing cold starts.
// A scheduled rule sends warmup events so the skill answers its first
// utterance without paying for bundle and rate table loading.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/logger"
)

const (
	// WarmupSource identifies warmup events from the scheduler
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy so self-invocations land on
	// other instances
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent represents the scheduled warmup payload
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the part of the Lambda API used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer answers warmup events and fans out to keep several instances warm.
type Warmer struct {
	functionName string
	invoker      Invoker
	delay        time.Duration
}

// NewWarmer creates a Warmer. A nil invoker is created from the default AWS
// config on first use.
func NewWarmer(functionName string, invoker Invoker) *Warmer {
	return &Warmer{
		functionName: functionName,
		invoker:      invoker,
		delay:        WarmupDelay,
	}
}

// IsWarmupEvent checks if the event is a warmup event. Skill requests never
// carry a top-level "source" field.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil {
		return nil, false
	}
	if warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

// Handle processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) (*WarmupResponse, error) {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			logger.Log.Warn("warmup self-invocation failed", zap.Error(err))
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	// Brief delay to ensure instances overlap
	time.Sleep(w.delay)

	return &WarmupResponse{
		Status:          "warm",
		InstancesWarmed: instancesWarmed,
	}, nil
}

// selfInvoke invokes this Lambda function N times asynchronously
// to create additional warm instances.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	if w.functionName == "" {
		return errors.New("function name is not configured")
	}

	if w.invoker == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return err
		}
		w.invoker = lambdasdk.NewFromConfig(cfg)
	}

	// Payload for child invocations (concurrency=0 to prevent infinite loop)
	payload, err := json.Marshal(WarmupEvent{
		Source:      WarmupSource,
		Concurrency: 0, // Critical: prevent recursive invocation
	})
	if err != nil {
		return err
	}

	// Invoke in parallel
	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.invoker.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent, // Async invocation
				Payload:        payload,
			})

			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
