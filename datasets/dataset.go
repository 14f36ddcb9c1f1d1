// Package datasets harmonizes third-party URL tables into one labeled, balanced corpus
package datasets

import "math/rand"

import "github.com/pkg/errors"

// ErrEmptyCorpus is returned when no dataset file yielded usable rows
var ErrEmptyCorpus = errors.New("no valid datasets")

// ErrDegenerateCorpus is returned when one of the labels has no rows
var ErrDegenerateCorpus = errors.New("corpus has no rows for one of the labels")

// label values
const (
	Legit    = 0
	Phishing = 1
)

// RawRecord is a row before label resolution. Cell holds the text of the label column
// and HasCell reports whether the row had such a cell.
type RawRecord struct {
	URL     string
	Cell    string
	HasCell bool
}

// Record is a labeled URL
type Record struct {
	URL   string `csv:"url"`
	Label int    `csv:"label"`
}

// Corpus is an ordered sequence of labeled URLs. Duplicates are allowed.
type Corpus []Record

// Counts returns the number of legit and phishing records
func (c Corpus) Counts() (legit, phishing int) {
	for _, r := range c {
		if r.Label == Phishing {
			phishing++
		} else {
			legit++
		}
	}
	return
}

// SplittedCorpus holds the legit records at index 0 and the phishing records at index 1
type SplittedCorpus [2]Corpus

// SplitCorpus splits corpus into legit and phishing records, preserving order
func SplitCorpus(c Corpus) (o SplittedCorpus) {
	for _, r := range c {
		if r.Label == Phishing {
			o[1] = append(o[1], r)
		} else {
			o[0] = append(o[0], r)
		}
	}
	return
}

// Balance subsamples the majority label so both labels have the same count. The majority
// rows are drawn without replacement from a source seeded with seed. The output holds the
// phishing rows followed by the legit rows, shuffled with the same source if shuffle is set.
func Balance(c Corpus, seed int64, shuffle bool) (Corpus, error) {
	d := SplitCorpus(c)
	if len(d[0]) == 0 || len(d[1]) == 0 {
		return nil, errors.Wrapf(ErrDegenerateCorpus, "legit=%d phishing=%d", len(d[0]), len(d[1]))
	}
	rng := rand.New(rand.NewSource(seed))

	major, minor := 0, 1
	if len(d[1]) > len(d[0]) {
		major, minor = 1, 0
	}
	n := len(d[minor])
	drawn := make(Corpus, 0, n)
	for _, i := range rng.Perm(len(d[major]))[:n] {
		drawn = append(drawn, d[major][i])
	}
	d[major] = drawn

	o := make(Corpus, 0, 2*n)
	o = append(o, d[1]...)
	o = append(o, d[0]...)
	if shuffle {
		rng.Shuffle(len(o), func(i, j int) { o[i], o[j] = o[j], o[i] })
	}
	return o, nil
}
