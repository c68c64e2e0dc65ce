// Package main is the entry point for the unit converter skill Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/unit-converter-skill/internal/config"
	"github.com/pricofy/unit-converter-skill/internal/domain"
	"github.com/pricofy/unit-converter-skill/internal/handler"
	"github.com/pricofy/unit-converter-skill/internal/logger"
)

// app holds the dependencies shared by every invocation of this instance.
type app struct {
	handler *handler.Handler
	warmer  *Warmer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.IsDevelopment()); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	h, err := handler.New(cfg, logger.Log)
	if err != nil {
		logger.Log.Fatal("failed to initialize skill", zap.Error(err))
	}

	a := &app{
		handler: h,
		warmer:  NewWarmer(cfg.FunctionName, nil),
	}
	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.Handle(ctx, warmup)
	}

	var env domain.RequestEnvelope
	if err := json.Unmarshal(event, &env); err != nil {
		logger.Log.Warn("cannot decode skill request", zap.Error(err))
		return nil, err
	}

	return a.handler.Handle(ctx, env)
}
