// Command careline runs an interactive follow-up call on the console while
// streaming UI state snapshots to connected websocket clients.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/hupe1980/careline"
	"github.com/hupe1980/careline/escalate"
	"github.com/hupe1980/careline/logging"
	anthropicmodel "github.com/hupe1980/careline/model/anthropic"
	openaimodel "github.com/hupe1980/careline/model/openai"
	"github.com/hupe1980/careline/uisync"
)

// CLI defines the command-line interface.
type CLI struct {
	LogLevel  string `default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `default:"text" enum:"text,json" help:"Log output format"`

	UIAddr string `default:":8080" help:"Listen address for the UI state websocket (empty disables)"`

	OpenAIModel    string  `name:"openai-model" default:"" help:"Override the OpenAI model name"`
	AnthropicModel string  `name:"anthropic-model" default:"" help:"Override the Anthropic model name"`
	Temperature    float64 `default:"0.7" help:"Sampling temperature for both models"`

	FallbackLine  string `default:"+15550100" help:"Clinic line dialed when the caller has no preferred line"`
	MaxToolRounds int    `default:"8" help:"Model/tool round-trip budget per turn"`
}

func logLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("careline"),
		kong.Description("Interactive patient follow-up call orchestrator."),
	)
	kctx.FatalIfErrorf(run(cli))
}

func run(cli CLI) error {
	ctx := context.Background()
	logger := logging.NewSlogLoggerTo(os.Stderr, logLevel(cli.LogLevel), cli.LogFormat)

	primary := openaimodel.NewModel(func(o *openaimodel.Options) {
		if cli.OpenAIModel != "" {
			o.Model = cli.OpenAIModel
		}
		o.Temperature = cli.Temperature
	})
	reflective := anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
		if cli.AnthropicModel != "" {
			o.Model = anthropicsdk.Model(cli.AnthropicModel)
		}
		o.Temperature = cli.Temperature
	})

	var sink uisync.Sink
	if cli.UIAddr != "" {
		hub := uisync.NewWebSocketHub(func(o *uisync.Options) { o.Logger = logger })
		defer hub.Close()

		mux := http.NewServeMux()
		mux.Handle("/ws/state", hub)
		go func() {
			logger.Info("ui.listen", "addr", cli.UIAddr)
			if err := http.ListenAndServe(cli.UIAddr, mux); err != nil {
				logger.Error("ui.listen_failed", "error", err.Error())
			}
		}()
		sink = hub
	}

	call, err := careline.New(ctx, primary, reflective, func(o *careline.Options) {
		o.Logger = logger
		o.Sink = sink
		o.HoursBot = demoHoursBot{}
		o.BenefitsBot = demoBenefitsBot{}
		o.Transfer = demoTransfer{logger: logger}
		o.FallbackDestination = cli.FallbackLine
		o.MaxToolRounds = cli.MaxToolRounds
	})
	if err != nil {
		return err
	}

	if err := call.Start(ctx); err != nil {
		return err
	}

	fmt.Printf("assistant: %s\n", call.Greeting())

	scanner := bufio.NewScanner(os.Stdin)
	for !call.Completed() {
		fmt.Print("you: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		result, err := call.HandleTurn(ctx, text)
		if err != nil {
			return err
		}
		if result.Reply != "" {
			fmt.Printf("assistant: %s\n", result.Reply)
		}
		for _, tr := range result.Transitions {
			logger.Debug("cli.transition", "from", string(tr.From), "to", string(tr.To))
		}
	}

	fmt.Println("call ended.")
	return scanner.Err()
}

// demoHoursBot answers staffing-hours questions with canned content so the
// escalation path works without live services.
type demoHoursBot struct{}

func (demoHoursBot) Query(context.Context, string, string) ([]string, error) {
	return []string{
		"The front desk is staffed Monday through Friday from 8am to 6pm,",
		"and Saturdays from 9am to noon.",
	}, nil
}

type demoBenefitsBot struct{}

func (demoBenefitsBot) Query(context.Context, string, string) ([]string, error) {
	return []string{
		"Follow-up visits within 30 days of a procedure are covered under the standard plan.",
		"For claim-specific questions the member line can pull up your account.",
	}, nil
}

type demoTransfer struct {
	logger logging.Logger
}

func (t demoTransfer) Transfer(_ context.Context, destination, trunkID, summary string) (string, error) {
	t.logger.Info("demo.transfer", "destination", destination, "trunk", trunkID, "summary", summary)
	return "coordinator-demo", nil
}

var _ escalate.BotClient = demoHoursBot{}
var _ escalate.BotClient = demoBenefitsBot{}
var _ escalate.TransferClient = demoTransfer{}
