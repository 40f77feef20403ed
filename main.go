package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/embed"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/agents"
	"github.com/sentinel-health/sentinel-core/appconfig"
	"github.com/sentinel-health/sentinel-core/db"
	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/orchestrator"
	"github.com/sentinel-health/sentinel-core/report"
	"github.com/sentinel-health/sentinel-core/retrieval"
	"github.com/sentinel-health/sentinel-core/schema"
)

func main() {
	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	var (
		mode     = flag.String("mode", "dictation", "workflow to run: dictation, denial or full")
		caseID   = flag.String("case", "", "case id (generated when empty)")
		patient  = flag.String("patient", "", "patient name")
		text     = flag.String("text", "", "dictation text")
		audio    = flag.String("audio", "", "path to dictation audio file")
		document = flag.String("document", "", "path to insurance document PDF")
		payer    = flag.String("payer", ccfgg.DefaultPayer, "restrict policy retrieval to one payer")
	)
	flag.Parse()

	in := orchestrator.CaseInput{
		CaseID:        *caseID,
		PatientName:   *patient,
		DictationText: *text,
		Payer:         *payer,
	}
	if *audio != "" {
		in.Audio = mustReadFile(*audio)
	}
	if *document != "" {
		in.Document = mustReadFile(*document)
	}

	engine := buildOrchestrator(ccfgg)

	ctx := getCancellableContext()

	var st *schema.WorkflowState
	switch *mode {
	case "dictation":
		st, err = engine.RunDictation(ctx, in)
	case "denial":
		st, err = engine.RunDenial(ctx, in)
	case "full":
		st, err = engine.RunFull(ctx, in)
	default:
		logger.Fatal("Unknown mode", zap.String("mode", *mode))
	}
	if err != nil {
		logger.Fatal("Workflow failed", zap.Error(err))
	}

	fmt.Println(report.AuditReport(st))
	if st.DenialDetected {
		fmt.Println(report.AppealPacket(st))
	}
}

func buildOrchestrator(ccfgg *appconfig.AppConfig) *orchestrator.Orchestrator {
	claude, err := llm.NewAnthropicClient(ccfgg.AuditModel)
	if err != nil {
		logger.Fatal("Failed to create Anthropic client", zap.Error(err))
	}

	whisper, err := llm.NewWhisperClient()
	if err != nil {
		logger.Fatal("Failed to create transcription client", zap.Error(err))
	}

	mongoClient := odm.ProvideMongoClient()

	embedder := embed.ProvideJinaAIEmbeddingClient()

	policyStore := retrieval.NewPolicyStore(
		odm.CollectionOf[db.PolicyChunkModel](mongoClient, ccfgg.Tenant),
		odm.CollectionOf[db.PolicyChunkAnnModel](mongoClient, ccfgg.Tenant),
		embedder,
	)

	// clinical extraction can run against a local model for air-gapped
	// deployments; the other stages stay on the hosted client.
	var scribeClient llm.CompletionClient = claude
	scribeModel := ccfgg.ScribeModel
	if ccfgg.OllamaModel != "" {
		ollama, err := llm.NewOllamaClient(ccfgg.OllamaModel)
		if err != nil {
			logger.Fatal("Failed to create Ollama client", zap.Error(err))
		}
		scribeClient = ollama
		scribeModel = ccfgg.OllamaModel
	}

	opts := []orchestrator.Option{
		orchestrator.WithCaseRepository(odm.CollectionOf[db.CaseModel](mongoClient, ccfgg.Tenant)),
	}
	if ccfgg.HaltOnError {
		opts = append(opts, orchestrator.WithHaltOnError())
	}

	return orchestrator.NewOrchestrator(
		agents.NewScribe(whisper, scribeClient, scribeModel),
		agents.NewCoder(claude, ccfgg.AuditModel, policyStore),
		agents.NewIntake(claude, ccfgg.IntakeModelList()),
		agents.NewRebuttal(claude, ccfgg.RebuttalModel, policyStore),
		opts...,
	)
}

func mustReadFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("Failed to read input file", zap.String("path", path), zap.Error(err))
	}
	return data
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
