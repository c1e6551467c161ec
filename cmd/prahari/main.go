package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"

	"github.com/bulletin-labs/prahari/audit"
	"github.com/bulletin-labs/prahari/audit/lexstore"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "prahari",
		Usage:   "content audit daemon (keeps bulletins broadcast-clean)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "lexicon-file",
			Usage:   "path to lexicon config JSON",
			Value:   "lexicons/hindi_news.json",
			EnvVars: []string{"PRAHARI_LEXICON_FILE"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		auditFileCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the audit service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the audit API",
			Value:   ":3985",
			EnvVars: []string{"PRAHARI_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3984",
			EnvVars: []string{"PRAHARI_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for counters, caching, and shared lexicon config",
			EnvVars: []string{"PRAHARI_REDIS_URL", "REDIS_URL"},
		},
		&cli.BoolFlag{
			Name:    "redis-lexicon",
			Usage:   "load lexicon config from redis instead of the local file",
			EnvVars: []string{"PRAHARI_REDIS_LEXICON"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "incoming webhook URL for audit alerts",
			EnvVars: []string{"PRAHARI_SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL"},
		},
		&cli.BoolFlag{
			Name:    "disable-caching",
			Usage:   "disable scan result caching",
			EnvVars: []string{"PRAHARI_DISABLE_CACHING"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		configOTEL("prahari")

		srv, err := NewServer(Config{
			LexiconFile:     cctx.String("lexicon-file"),
			RedisURL:        cctx.String("redis-url"),
			RedisLexicon:    cctx.Bool("redis-lexicon"),
			SlackWebhookURL: cctx.String("slack-webhook-url"),
			DisableCaching:  cctx.Bool("disable-caching"),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("metrics listener failed", "err", err)
				os.Exit(1)
			}
		}()

		return srv.RunAPI(cctx.String("bind"))
	},
}

var auditFileCmd = &cli.Command{
	Name:      "audit-file",
	Usage:     "audit a single text file and print the structured report",
	ArgsUsage: "<path>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "content-id",
			Value: "local-file",
		},
		&cli.BoolFlag{
			Name:  "transcript",
			Usage: "treat the file as an audio transcript instead of a summary",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return fmt.Errorf("expected one file path argument")
		}
		raw, err := os.ReadFile(cctx.Args().First())
		if err != nil {
			return err
		}
		lexicons, err := lexstore.NewFileLexiconStore(cctx.String("lexicon-file"))
		if err != nil {
			return err
		}

		eng := audit.Engine{
			Logger:   slog.Default(),
			Lexicons: lexicons,
		}
		ctype := audit.ContentSummary
		if cctx.Bool("transcript") {
			ctype = audit.ContentAudioTranscript
		}
		report, err := eng.ProcessContent(context.Background(), cctx.String("content-id"), ctype, string(raw))
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
