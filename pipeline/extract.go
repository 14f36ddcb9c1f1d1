package pipeline

import "context"

import "github.com/neurlang/phishnet/datasets"
import "github.com/neurlang/phishnet/features"
import "github.com/neurlang/phishnet/parallel"

// Matrix holds the extracted features of a corpus in corpus order
type Matrix struct {
	Rows    [][]float64
	Labels  []float64
	Dropped int // records the extractor could not parse
}

// Counts returns the number of rows per label
func (m *Matrix) Counts() (legit, phishing int) {
	for _, l := range m.Labels {
		if l == datasets.Phishing {
			phishing++
		} else {
			legit++
		}
	}
	return
}

// Extract computes the feature vector of every record of c. Records that fail
// extraction are dropped; the order of the rest is the corpus order regardless of workers.
func Extract(ctx context.Context, ext *features.Extractor, c datasets.Corpus, workers int) (*Matrix, error) {
	records := make([]features.Record, len(c))
	ok := make([]bool, len(c))
	err := parallel.Chunks(ctx, len(c), workers, func(from, to int) error {
		for i := from; i < to; i++ {
			records[i], ok[i] = ext.Extract(c[i].URL)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := &Matrix{Rows: make([][]float64, 0, len(c)), Labels: make([]float64, 0, len(c))}
	for i, r := range records {
		if !ok[i] {
			m.Dropped++
			continue
		}
		m.Rows = append(m.Rows, r.Slice())
		m.Labels = append(m.Labels, float64(c[i].Label))
	}
	return m, nil
}
