package main

import (
	"fmt"
	"os"

	redisclient "github.com/lumenlearn/lumen-backend/internal/clients/redis"
	"github.com/lumenlearn/lumen-backend/internal/handlers"
	"github.com/lumenlearn/lumen-backend/internal/knowledge"
	"github.com/lumenlearn/lumen-backend/internal/middleware"
	"github.com/lumenlearn/lumen-backend/internal/platform/envutil"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/server"
	"github.com/lumenlearn/lumen-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Synthesis config
	synthCfg := knowledge.DefaultSynthesisConfig()
	if path := envutil.Str("SYNTHESIS_CONFIG_PATH", ""); path != "" {
		synthCfg, err = knowledge.LoadSynthesisConfig(path)
		if err != nil {
			log.Warn("Synthesis config load failed; using defaults", "path", path, "error", err)
		}
	}

	// Graph store
	maxSubjects := envutil.Int("GRAPH_CACHE_MAX_SUBJECTS", knowledge.DefaultMaxSubjects)
	store := knowledge.NewGraphStore(log, maxSubjects)
	synthesizer := knowledge.NewSynthesizer(log, synthCfg)

	// Optional Redis mirror
	var mirror services.GraphCacheMirror
	if envutil.Str("REDIS_ADDR", "") != "" {
		graphCache, err := redisclient.NewGraphCache(log)
		if err != nil {
			log.Warn("Redis graph cache init failed; running without mirror", "error", err)
		} else {
			defer graphCache.Close()
			mirror = graphCache
		}
	}

	// Providers
	log.Info("Setting up providers from main...")
	var sourcing services.ConceptSourcingProvider
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Warn("OpenAI client unavailable; concept sourcing disabled", "error", err)
		sourcing = services.NewStaticConceptSource()
	} else {
		sourcing = services.NewOpenAIConceptSource(log, openaiClient)
	}
	gapAnalyzer := services.NewHeuristicGapAnalyzer(log)

	// Services
	log.Info("Setting up services from main...")
	knowledgeService := services.NewKnowledgeService(log, store, synthesizer, sourcing, gapAnalyzer, mirror)

	// Handlers
	log.Info("Setting up handlers from main...")
	knowledgeHandler := handlers.NewKnowledgeHandler(log, knowledgeService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestLogger:    middleware.NewRequestLogger(log),
		KnowledgeHandler: knowledgeHandler,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
