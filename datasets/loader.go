package datasets

import "encoding/csv"
import "io"
import "os"
import "path/filepath"
import "strings"

import "github.com/pkg/errors"
import "go.uber.org/zap"
import "golang.org/x/text/encoding/charmap"

// ErrNoValidURLs is returned when no row of a file has a usable URL
var ErrNoValidURLs = errors.New("no valid URLs")

// ErrNoHeader is returned for a file without a header row
var ErrNoHeader = errors.New("no header row")

// IsSkip reports whether err means the file should be skipped rather than abort the run
func IsSkip(err error) bool {
	switch errors.Cause(err) {
	case ErrNoURLColumn, ErrNoValidURLs, ErrNoHeader:
		return true
	}
	return false
}

// Options holds the column and label vocabularies of the loader
type Options struct {
	URLColumns        []string `yaml:"url_columns"`
	LabelColumns      []string `yaml:"label_columns"`
	PositiveLabels    []string `yaml:"positive_labels"`
	AutoLabelKeywords []string `yaml:"auto_label_keywords"`

	// URLPrefix is the case-sensitive prefix a URL cell must start with
	URLPrefix string `yaml:"url_prefix"`
}

// DefaultOptions returns the vocabularies the published model was trained with
func DefaultOptions() Options {
	return Options{
		URLColumns:        []string{"url", "domain", "link"},
		LabelColumns:      []string{"label", "type", "phishing", "malicious"},
		PositiveLabels:    []string{"1", "malicious", "phish", "bad"},
		AutoLabelKeywords: []string{"phish", "malicious", "spam"},
		URLPrefix:         "http",
	}
}

// LoadReport describes the decisions taken while loading one file
type LoadReport struct {
	File        string
	URLColumn   string
	LabelColumn string
	Strategy    string
	Rows        int // rows read, header excluded
	Malformed   int // rows skipped as unparseable
	Invalid     int // rows without a usable URL
	Legit       int
	Phishing    int
	Skipped     error
}

// AutoLabeled reports whether labels came from the file name
func (r LoadReport) AutoLabeled() bool {
	return r.Strategy == "filename"
}

// Loader reads one CSV dataset of unknown schema
type Loader struct {
	opts     Options
	column   LabelResolver
	filename LabelResolver
	log      *zap.SugaredLogger
}

// NewLoader creates a loader. Nil vocabularies in opts are replaced by the defaults.
func NewLoader(opts Options, log *zap.SugaredLogger) *Loader {
	def := DefaultOptions()
	if opts.URLColumns == nil {
		opts.URLColumns = def.URLColumns
	}
	if opts.LabelColumns == nil {
		opts.LabelColumns = def.LabelColumns
	}
	if opts.PositiveLabels == nil {
		opts.PositiveLabels = def.PositiveLabels
	}
	if opts.AutoLabelKeywords == nil {
		opts.AutoLabelKeywords = def.AutoLabelKeywords
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = def.URLPrefix
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{
		opts:     opts,
		column:   NewColumnLabels(opts.PositiveLabels),
		filename: NewFilenameLabels(opts.AutoLabelKeywords),
		log:      log,
	}
}

// Load reads the file at path. A file that can't contribute rows is reported with an
// error for which IsSkip is true; other errors are I/O failures.
func (l *Loader) Load(path string) (Corpus, LoadReport, error) {
	report := LoadReport{File: filepath.Base(path)}
	f, err := os.Open(path)
	if err != nil {
		return nil, report, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	c, err := l.Read(path, f, &report)
	if err != nil {
		report.Skipped = err
		return nil, report, err
	}
	return c, report, nil
}

// Read loads a dataset from r. The name is used for auto-labeling and in errors.
func (l *Loader) Read(name string, r io.Reader, report *LoadReport) (Corpus, error) {
	if report == nil {
		report = new(LoadReport)
	}
	rows, err := l.readRaw(r, report)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filepath.Base(name))
	}

	resolver := l.filename
	if report.LabelColumn != "" {
		resolver = l.column
	}
	report.Strategy = resolver.Name()

	c := make(Corpus, 0, len(rows))
	for _, row := range rows {
		label := resolver.Label(name, row)
		if label == Phishing {
			report.Phishing++
		} else {
			report.Legit++
		}
		c = append(c, Record{URL: row.URL, Label: label})
	}
	return c, nil
}

// readRaw decodes the table as latin-1 and returns the rows with a usable URL
func (l *Loader) readRaw(r io.Reader, report *LoadReport) ([]RawRecord, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := l.next(cr, report)
	if err == io.EOF {
		return nil, ErrNoHeader
	} else if err != nil {
		return nil, err
	}
	schema, err := InferSchema(header, l.opts.URLColumns, l.opts.LabelColumns)
	if err != nil {
		return nil, err
	}
	report.URLColumn = schema.URLName
	report.LabelColumn = schema.LabelName

	var rows []RawRecord
	for {
		rec, err := l.next(cr, report)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		report.Rows++
		if len(rec) > len(header) {
			report.Malformed++
			continue
		}
		if schema.URL >= len(rec) || !strings.HasPrefix(rec[schema.URL], l.opts.URLPrefix) {
			report.Invalid++
			continue
		}
		row := RawRecord{URL: rec[schema.URL]}
		if schema.HasLabel() && schema.Label < len(rec) {
			row.Cell, row.HasCell = rec[schema.Label], true
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoValidURLs
	}
	return rows, nil
}

// next reads the next record, skipping records with parse errors
func (l *Loader) next(cr *csv.Reader, report *LoadReport) ([]string, error) {
	for {
		rec, err := cr.Read()
		if err == nil {
			return rec, nil
		}
		var perr *csv.ParseError
		if !errors.As(err, &perr) {
			return nil, err
		}
		report.Malformed++
		l.log.Debugw("skipping malformed row", "file", report.File, "line", perr.Line, "error", perr.Err)
	}
}
