package datasets

import "context"
import "os"
import "path/filepath"
import "strings"

import "github.com/neurlang/phishnet/parallel"
import "github.com/pkg/errors"
import "go.uber.org/zap"

// Builder merges every CSV file of a directory into one corpus
type Builder struct {
	loader  *Loader
	workers int
	log     *zap.SugaredLogger
}

// NewBuilder creates a corpus builder loading up to workers files at once (0 means the
// number of logical cores)
func NewBuilder(loader *Loader, workers int, log *zap.SugaredLogger) *Builder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Builder{loader: loader, workers: workers, log: log}
}

// Files lists the dataset files of dir in lexical order. Only regular files whose name
// ends with ".csv" are datasets.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list datasets in %s", dir)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// Build loads every dataset of dir and concatenates them in lexical file order, keeping
// row order within each file. Files that can't contribute rows are skipped and logged.
func (b *Builder) Build(ctx context.Context, dir string) (Corpus, []LoadReport, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, nil, err
	}

	parts := make([]Corpus, len(files))
	reports := make([]LoadReport, len(files))
	err = parallel.ForEach(ctx, len(files), b.workers, func(_ context.Context, i int) error {
		c, report, err := b.loader.Load(files[i])
		reports[i] = report
		if err != nil && !IsSkip(err) {
			return err
		}
		parts[i] = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var corpus Corpus
	for _, r := range reports {
		if r.Skipped != nil {
			b.log.Warnw("dataset skipped", "file", r.File, "reason", errors.Cause(r.Skipped).Error(),
				"rows", r.Rows, "malformed", r.Malformed)
			continue
		}
		if r.AutoLabeled() {
			b.log.Warnw("dataset auto labeled", "file", r.File, "url_column", r.URLColumn,
				"legit", r.Legit, "phishing", r.Phishing)
		} else {
			b.log.Infow("dataset labels", "file", r.File, "url_column", r.URLColumn,
				"label_column", r.LabelColumn, "legit", r.Legit, "phishing", r.Phishing)
		}
		b.log.Infow("dataset loaded", "file", r.File, "rows", r.Legit+r.Phishing,
			"malformed", r.Malformed, "invalid", r.Invalid)
	}
	for _, c := range parts {
		corpus = append(corpus, c...)
	}
	if len(corpus) == 0 {
		return nil, reports, errors.Wrapf(ErrEmptyCorpus, "in %s", dir)
	}

	legit, phishing := corpus.Counts()
	b.log.Infow("total combined", "rows", len(corpus), "legit", legit, "phishing", phishing)
	return corpus, reports, nil
}
