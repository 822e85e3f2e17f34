package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"medical-conversation-processor/internal/app"
	"medical-conversation-processor/internal/config"
	"medical-conversation-processor/internal/events"
	apihttp "medical-conversation-processor/internal/http"
	"medical-conversation-processor/internal/observability"
	"medical-conversation-processor/internal/service/llm"
	llmmock "medical-conversation-processor/internal/service/llm/mock"
	"medical-conversation-processor/internal/service/llm/ollama"
	llmopenai "medical-conversation-processor/internal/service/llm/openai"
	"medical-conversation-processor/internal/service/pipeline"
	"medical-conversation-processor/internal/service/stt"
	sttgoogle "medical-conversation-processor/internal/service/stt/google"
	sttmock "medical-conversation-processor/internal/service/stt/mock"
	"medical-conversation-processor/internal/service/stt/whisper"
)

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application start failed")
	}
	defer application.Shutdown()

	transcriber, err := buildTranscriber(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.STT.Provider).Msg("STT provider init failed")
	}
	completer := buildCompleter(cfg)

	publisher := events.New(&events.Config{
		Enabled:          cfg.Kafka.Enabled,
		Brokers:          cfg.Kafka.Brokers,
		TopicTranscripts: cfg.Kafka.TopicTranscripts,
		TopicRecords:     cfg.Kafka.TopicRecords,
		Principal:        cfg.Kafka.Principal,
	})
	defer publisher.Close()

	p := pipeline.New(transcriber, completer, publisher, pipeline.Config{
		Workers:           cfg.Pipeline.Workers,
		AttributeSpeakers: cfg.Pipeline.AttributeSpeakers,
		RetryTranscribe:   cfg.Pipeline.RetryTranscribe,
		Model:             cfg.LLM.Model,
		LanguageHint:      cfg.STT.LanguageCode,
		Sampling: llm.Options{
			Temperature: cfg.LLM.Temperature,
			TopK:        cfg.LLM.TopK,
			TopP:        cfg.LLM.TopP,
			MaxTokens:   cfg.LLM.MaxTokens,
		},
	})

	obsServer := observability.NewServer(":" + cfg.Service.MetricsPort)
	obsServer.Start()

	apiServer := apihttp.New(cfg, p, completer, transcriber.Name())
	apiServer.Start()

	log.Info().
		Str("httpPort", cfg.Service.HTTPPort).
		Str("metricsPort", cfg.Service.MetricsPort).
		Str("sttProvider", transcriber.Name()).
		Str("llmProvider", completer.Name()).
		Str("model", cfg.LLM.Model).
		Msg("Medical conversation processor started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}
	if err := obsServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Observability server shutdown failed")
	}
}

func buildTranscriber(cfg *config.Config) (stt.Transcriber, error) {
	switch cfg.STT.Provider {
	case "whisper":
		return whisper.New(whisper.Config{
			BaseURL: cfg.STT.BaseURL,
			APIKey:  cfg.STT.APIKey,
			Model:   cfg.STT.Model,
		}), nil
	case "google":
		return sttgoogle.New(context.Background(), sttgoogle.Config{
			LanguageCode:  cfg.STT.LanguageCode,
			SampleRateHz:  cfg.STT.SampleRateHz,
			AudioEncoding: cfg.STT.Encoding,
		})
	default:
		return sttmock.New(), nil
	}
}

func buildCompleter(cfg *config.Config) llm.Completer {
	switch cfg.LLM.Provider {
	case "openai":
		return llmopenai.New(llmopenai.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
		})
	case "mock":
		return llmmock.New()
	default:
		return ollama.New(cfg.LLM.BaseURL)
	}
}
