package main

import "context"
import "fmt"
import "os"
import "os/signal"
import "strings"
import "syscall"

import "github.com/neurlang/phishnet/config"
import "github.com/neurlang/phishnet/logging"
import "github.com/neurlang/phishnet/pipeline"
import "github.com/neurlang/phishnet/runlog"
import "github.com/urfave/cli/v2"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "train_phishnet",
		Usage: "train the phishing URL classifier and export its artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "datasets", Usage: "directory of CSV datasets", Value: config.Default().Datasets},
			&cli.StringFlag{Name: "model-dir", Usage: "output directory of model.onnx and scaler.json",
				Value: config.Default().ModelDir},
			&cli.IntFlag{Name: "epochs", Usage: "training epochs", Value: config.Default().Training.Epochs},
			&cli.Int64Flag{Name: "seed", Usage: "balancing and initialization seed", Value: config.Default().Balance.Seed},
			&cli.StringFlag{Name: "history", Usage: "sqlite run history, empty disables it"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: config.Default().LogLevel},
			&cli.StringFlag{Name: "cpuprofile", Usage: "write a CPU profile to this file"},
		},
		Action: train,
		Commands: []*cli.Command{{
			Name:   "runs",
			Usage:  "list recorded training runs",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "history", Usage: "sqlite run history", Required: true}},
			Action: runs,
		}},
	}
}

// load returns the configuration of the file flag with the other flags applied over it
func load(c *cli.Context) (cfg config.Config, err error) {
	cfg = config.Default()
	if path := c.String("config"); path != "" {
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("datasets") {
		cfg.Datasets = c.String("datasets")
	}
	if c.IsSet("model-dir") {
		cfg.ModelDir = c.String("model-dir")
	}
	if c.IsSet("epochs") {
		cfg.Training.Epochs = c.Int("epochs")
	}
	if c.IsSet("seed") {
		cfg.Balance.Seed = c.Int64("seed")
		cfg.Training.Seed = c.Int64("seed")
	}
	if c.IsSet("history") {
		cfg.History = c.String("history")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, cfg.Validate()
}

func train(c *cli.Context) error {
	cfg, err := load(c)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if path := c.String("cpuprofile"); path != "" {
		stop, err := profile(path)
		if err != nil {
			return err
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, log)
	if err != nil {
		log.Errorw("training failed", "error", err)
		return err
	}
	fmt.Printf("run %s: %d rows, loss %.4f, accuracy %.2f%%, artifacts in %s\n",
		res.RunID, res.Extracted, res.Training.Loss, 100*res.Training.Accuracy, res.ModelDir)
	return nil
}

func runs(c *cli.Context) error {
	db, err := runlog.Open(c.String("history"))
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No runs found")
		return nil
	}
	fmt.Printf("%-36s %-20s %-8s %-8s %-8s %-8s %-9s %s\n",
		"ID", "Started", "Corpus", "Balanced", "Rows", "Loss", "Accuracy", "Model Dir")
	fmt.Println(strings.Repeat("-", 120))
	for _, r := range list {
		fmt.Printf("%-36s %-20s %-8d %-8d %-8d %-8.4f %-9.4f %s\n",
			r.ID, r.Started.Format("2006-01-02 15:04:05"), r.CorpusRows, r.BalancedRows, r.ExtractedRows,
			r.Loss, r.Accuracy, r.ModelDir)
	}
	fmt.Printf("\nTotal: %d runs\n", len(list))
	return nil
}
