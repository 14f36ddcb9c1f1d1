package main

import "fmt"
import "io"
import "os"

import "github.com/neurlang/phishnet/config"
import "github.com/neurlang/phishnet/inference"
import "github.com/neurlang/phishnet/trainer"
import "github.com/urfave/cli/v2"

func main() {
	app := &cli.App{
		Name:      "infer_phishnet",
		Usage:     "score URLs with an exported phishing classifier",
		ArgsUsage: "URL...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model-dir", Usage: "directory of model.onnx and scaler.json",
				Value: config.Default().ModelDir},
			&cli.StringFlag{Name: "config", Usage: "YAML configuration the model was trained with"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			cfg := config.Default()
			if path := c.String("config"); path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			p, err := inference.Load(c.String("model-dir"), cfg.Features)
			if err != nil {
				return err
			}
			score(os.Stdout, p, c.Args().Slice())
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// score prints one tab separated line per URL: the score, the verdict and the URL
func score(w io.Writer, p *inference.Predictor, urls []string) {
	for _, u := range urls {
		s, ok := p.Score(u)
		switch {
		case !ok:
			fmt.Fprintf(w, "-\tinvalid\t%s\n", u)
		case s > trainer.Threshold:
			fmt.Fprintf(w, "%.6f\tphishing\t%s\n", s, u)
		default:
			fmt.Fprintf(w, "%.6f\tlegit\t%s\n", s, u)
		}
	}
}
