package bootstrap

import (
	"log"
	"time"

	"text2sql-be/internal/config"
	"text2sql-be/internal/controller"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/internal/repository/implementation"
	"text2sql-be/internal/repository/memory"
	"text2sql-be/internal/repository/unitofwork"
	"text2sql-be/internal/service"
	"text2sql-be/pkg/embedding"
	"text2sql-be/pkg/llm/factory"
	"text2sql-be/pkg/pipeline"
	"text2sql-be/pkg/sqlexec"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	QueryController controller.IQueryController

	// Background services (exposed for main.go to run)
	TrainerService service.ITrainerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		ModelName:     cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Pipeline collaborators
	embeddingCache := memory.NewEmbeddingCache()
	semanticCache := pipeline.NewSemanticCache(
		embeddingProvider,
		implementation.NewQueryCacheRepository(db),
		embeddingCache,
		cfg.Query.CacheDistanceThreshold,
		sysLogger,
	)
	runner := sqlexec.NewGormRunner(db, cfg.Query.ExecRowCap)
	transcript := service.NewTranscriptService(uowFactory)

	queryPipeline := pipeline.New(
		llmProvider,
		semanticCache,
		runner,
		transcript,
		sysLogger,
		pipeline.Config{
			GenerationTimeout: time.Duration(cfg.Query.StreamTimeoutSeconds) * time.Second,
			ResultRowLimit:    cfg.Query.ResultRowLimit,
			HistoryWindow:     cfg.Query.HistoryWindow,
		},
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Query.TrainTopic, pubSub)
	trainerService := service.NewTrainerService(
		pubSub,
		cfg.Query.TrainTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	chatService := service.NewChatService(uowFactory, llmProvider, sysLogger)
	queryService := service.NewQueryService(uowFactory, queryPipeline, publisherService, sysLogger)

	// 6. Controllers
	chatController := controller.NewChatController(chatService, queryService)
	queryController := controller.NewQueryController(queryService)

	return &Container{
		ChatController:  chatController,
		QueryController: queryController,
		TrainerService:  trainerService,
		Logger:          sysLogger,
	}
}
