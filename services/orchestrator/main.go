// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/AleutianAnalyst/services/agents"
	"github.com/AleutianAI/AleutianAnalyst/services/llm"
	"github.com/AleutianAI/AleutianAnalyst/services/marketdata"
	"github.com/AleutianAI/AleutianAnalyst/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianAnalyst/services/orchestrator/routes"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow"
	"github.com/AleutianAI/AleutianAnalyst/services/workflow/datatypes"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "analyst-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("analyst-orchestrator")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// unavailableNews stands in when the news provider cannot be configured:
// the sentiment branch then records data-unavailable instead of panicking.
type unavailableNews struct{ reason string }

func (u unavailableNews) News(ctx context.Context, ticker string, limit int) ([]marketdata.Headline, error) {
	return nil, datatypes.DataUnavailable("news provider not configured: %s", u.reason)
}

// unavailableLLM stands in when an LLM backend cannot be configured. The
// engine absorbs the error into its deterministic fallbacks.
type unavailableLLM struct{ reason string }

func (u unavailableLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	return "", datatypes.NewAdapterError(datatypes.ErrKindEvaluatorUnavailable,
		&configError{u.reason})
}

type configError struct{ reason string }

func (e *configError) Error() string { return e.reason }

func buildEngine(metrics *observability.AnalysisMetrics) (*workflow.Engine, error) {
	yahoo := marketdata.NewYahooClient()
	forecaster := marketdata.NewForecastClient()

	var news agents.NewsProvider
	if av, err := marketdata.NewAlphaVantageClient(); err == nil {
		news = av
	} else {
		slog.Warn("News provider unavailable, sentiment branch will degrade", "error", err)
		news = unavailableNews{reason: err.Error()}
	}

	var evaluatorLLM llm.LLMClient
	if client, err := llm.NewOpenAIClient(); err == nil {
		evaluatorLLM = client
	} else {
		slog.Warn("OpenAI unavailable, evaluations will use the fallback verdict", "error", err)
		evaluatorLLM = unavailableLLM{reason: err.Error()}
	}

	var insightLLM llm.LLMClient
	if client, err := llm.NewGeminiClient(context.Background()); err == nil {
		insightLLM = client
	} else {
		slog.Warn("Gemini unavailable, insights will use the templated report", "error", err)
		insightLLM = unavailableLLM{reason: err.Error()}
	}

	cfg := workflow.DefaultConfig()
	if v := os.Getenv("ANALYST_MAX_IMPROVEMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxImprovements = n
		}
	}

	adapters := []workflow.TaskAdapter{
		&agents.MarketDataAgent{Provider: yahoo},
		&agents.TechnicalAgent{Provider: yahoo},
		&agents.QuantitativeAgent{Provider: yahoo},
		&agents.SentimentAgent{Provider: news},
		&agents.SectorAgent{Provider: yahoo},
		&agents.ForecastAgent{History: yahoo, Forecaster: forecaster},
	}

	return workflow.NewEngine(cfg, adapters,
		&agents.LLMEvaluator{Client: evaluatorLLM},
		&agents.LLMInsights{Client: insightLLM},
		workflow.WithStageObserver(metrics),
	)
}

func main() {
	port := os.Getenv("ANALYST_PORT")
	if port == "" {
		port = "8000"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	metrics := observability.InitMetrics()

	engine, err := buildEngine(metrics)
	if err != nil {
		log.Fatalf("failed to build analysis engine: %v", err)
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("analyst-orchestrator"))
	routes.SetupRoutes(router, engine, metrics)

	slog.Info("Starting analyst orchestrator", "port", port)
	if err := router.Run(":" + port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
