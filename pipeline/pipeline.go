// Package pipeline runs one training run end to end: load the datasets, balance them,
// extract and normalize features, train, export the artifacts and record the run.
package pipeline

import "context"
import "os"
import "path/filepath"
import "time"

import "github.com/gocarina/gocsv"
import "github.com/google/uuid"
import "github.com/neurlang/phishnet/config"
import "github.com/neurlang/phishnet/datasets"
import "github.com/neurlang/phishnet/export"
import "github.com/neurlang/phishnet/features"
import "github.com/neurlang/phishnet/net/feedforward"
import "github.com/neurlang/phishnet/parallel"
import "github.com/neurlang/phishnet/runlog"
import "github.com/neurlang/phishnet/scaler"
import "github.com/neurlang/phishnet/trainer"
import "github.com/pkg/errors"
import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

// SnapshotFile is the name of the balanced corpus snapshot in the model directory
const SnapshotFile = "corpus.csv"

// Result summarizes a successful run
type Result struct {
	RunID     string
	Started   time.Time
	Corpus    int // merged rows
	Balanced  int
	Extracted int
	Dropped   int
	Training  trainer.Result
	ModelDir  string
	Snapshot  string // corpus snapshot path, empty when none was written
	Recorded  bool   // whether the run reached the history
}

// Run trains and exports a model as configured by cfg. Nothing is written unless
// training succeeds. Once the artifacts are written, failures of the corpus snapshot or
// the run history are logged and reported in the Result instead of failing the run.
func Run(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*Result, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	res := &Result{RunID: uuid.NewString(), Started: time.Now().UTC(), ModelDir: cfg.ModelDir}
	log = log.With("run", res.RunID)
	log.Infow("run started", "cpu", parallel.CPU(), "workers", workers(cfg.Workers), "datasets", cfg.Datasets)

	loader := datasets.NewLoader(cfg.Loader, log)
	corpus, _, err := datasets.NewBuilder(loader, cfg.Workers, log).Build(ctx, cfg.Datasets)
	if err != nil {
		return nil, err
	}
	res.Corpus = len(corpus)

	balanced, err := datasets.Balance(corpus, cfg.Balance.Seed, cfg.Balance.Shuffle)
	if err != nil {
		return nil, err
	}
	res.Balanced = len(balanced)
	log.Infow("balanced", "rows", len(balanced), "per_label", len(balanced)/2, "seed", cfg.Balance.Seed)

	m, err := Extract(ctx, features.New(cfg.Features), balanced, cfg.Workers)
	if err != nil {
		return nil, err
	}
	legit, phishing := m.Counts()
	if legit == 0 || phishing == 0 {
		return nil, errors.Wrapf(datasets.ErrDegenerateCorpus, "after extraction: %d legit, %d phishing", legit, phishing)
	}
	res.Extracted, res.Dropped = len(m.Rows), m.Dropped
	log.Infow("features extracted", "rows", len(m.Rows), "dropped", m.Dropped, "features", features.Len)

	params, err := scaler.Fit(m.Rows, features.Names())
	if err != nil {
		return nil, errors.Wrap(err, "fit scaler")
	}
	x := mat.NewDense(len(m.Rows), features.Len, nil)
	for i, row := range params.TransformAll(m.Rows) {
		x.SetRow(i, row)
	}

	net := feedforward.New(features.Len, cfg.Training.Seed)
	res.Training, err = trainer.Train(net, x, m.Labels, cfg.Training, log)
	if err != nil {
		return nil, err
	}
	log.Infow("trained", "epochs", res.Training.Epochs, "loss", res.Training.Loss, "accuracy", res.Training.Accuracy)

	if err := export.Write(cfg.ModelDir, net, params, res.RunID); err != nil {
		return nil, err
	}
	log.Infow("artifacts written", "dir", cfg.ModelDir, "model", export.ModelFile, "scaler", export.ScalerFile)

	// the artifacts are published, so the snapshot and the history are advisory
	if cfg.CorpusSnapshot {
		path := filepath.Join(cfg.ModelDir, SnapshotFile)
		if err := snapshot(path, balanced); err != nil {
			log.Warnw("corpus snapshot not written", "path", path, "error", err)
		} else {
			res.Snapshot = path
		}
	}
	if cfg.History != "" {
		if err := record(ctx, cfg.History, res); err != nil {
			log.Warnw("run not recorded", "history", cfg.History, "error", err)
		} else {
			res.Recorded = true
			log.Infow("run recorded", "history", cfg.History)
		}
	}
	return res, nil
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return parallel.Limit()
}

// snapshot writes c as url,label CSV
func snapshot(path string, c datasets.Corpus) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create corpus snapshot")
	}
	records := []datasets.Record(c)
	if err := gocsv.MarshalFile(&records, f); err != nil {
		f.Close()
		return errors.Wrap(err, "write corpus snapshot")
	}
	return errors.Wrap(f.Close(), "write corpus snapshot")
}

func record(ctx context.Context, path string, res *Result) error {
	db, err := runlog.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Record(ctx, runlog.Run{
		ID:            res.RunID,
		Started:       res.Started,
		CorpusRows:    res.Corpus,
		BalancedRows:  res.Balanced,
		ExtractedRows: res.Extracted,
		Loss:          res.Training.Loss,
		Accuracy:      res.Training.Accuracy,
		ModelDir:      res.ModelDir,
	})
}
