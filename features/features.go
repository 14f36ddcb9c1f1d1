// Package features implements the lexical URL feature extractor shared by training and inference
package features

import "regexp"
import "strings"
import "unicode"
import "unicode/utf8"

// Len is the number of features in a Record
const Len = 21

// the order of names is the contract persisted as feature_names in scaler.json
var names = [Len]string{
	"url_length",
	"domain_length",
	"path_length",
	"num_dots",
	"num_slashes",
	"num_question",
	"num_equal",
	"num_hyphens",
	"num_at",
	"num_and",
	"num_hash",
	"num_percent",
	"num_digits_url",
	"num_letters_url",
	"https",
	"has_ip",
	"num_subdomains",
	"has_suspicious_words",
	"has_shortening",
	"digit_ratio",
	"special_char_ratio",
}

// Names returns a copy of the feature schema in extraction order
func Names() []string {
	o := make([]string, Len)
	copy(o, names[:])
	return o
}

// Record is one extracted feature vector. Index n holds the feature Names()[n].
type Record [Len]float64

// Feature extracts n-th feature from Record
func (r Record) Feature(n int) float64 {
	return r[n]
}

// Slice returns the record values as a freshly allocated slice
func (r Record) Slice() []float64 {
	o := make([]float64, Len)
	copy(o, r[:])
	return o
}

// Map returns the record keyed by feature name
func (r Record) Map() map[string]float64 {
	o := make(map[string]float64, Len)
	for i, n := range names {
		o[n] = r[i]
	}
	return o
}

// Options holds the vocabularies consulted by the extractor
type Options struct {
	// SuspiciousWords are matched case-insensitively anywhere in the URL
	SuspiciousWords []string `yaml:"suspicious_words"`

	// Shorteners are matched as substrings of the network location
	Shorteners []string `yaml:"shorteners"`
}

// DefaultOptions returns the vocabularies the published model was trained with
func DefaultOptions() Options {
	return Options{
		SuspiciousWords: []string{"login", "secure", "update", "account", "verify"},
		Shorteners:      []string{"bit.ly", "goo.gl", "tinyurl", "t.co"},
	}
}

var ipPrefix = regexp.MustCompile(`^\p{Nd}+\.\p{Nd}+\.\p{Nd}+\.\p{Nd}+`)

// Extractor computes Records from URL strings. It is safe for concurrent use.
type Extractor struct {
	words      []string
	shorteners []string
}

// New creates an extractor. Nil vocabularies are replaced by the defaults.
func New(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.SuspiciousWords == nil {
		opts.SuspiciousWords = def.SuspiciousWords
	}
	if opts.Shorteners == nil {
		opts.Shorteners = def.Shorteners
	}
	e := &Extractor{
		shorteners: append([]string(nil), opts.Shorteners...),
	}
	for _, w := range opts.SuspiciousWords {
		e.words = append(e.words, strings.ToLower(w))
	}
	return e
}

// Extract computes the feature record of url. It reports false when url can't be
// parsed as an http(s) URL; the caller is expected to skip such a record.
func (e *Extractor) Extract(url string) (r Record, ok bool) {
	if strings.TrimSpace(url) == "" {
		return r, false
	}
	p, ok := split(url)
	if !ok {
		return r, false
	}

	length := utf8.RuneCountInString(url)
	var digits, letters int
	for _, c := range url {
		if unicode.IsDigit(c) {
			digits++
		}
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			letters++
		}
	}

	dots := strings.Count(url, ".")
	hyphens := strings.Count(url, "-")
	at := strings.Count(url, "@")

	r[0] = float64(length)
	r[1] = float64(utf8.RuneCountInString(p.netloc))
	r[2] = float64(utf8.RuneCountInString(p.path))
	r[3] = float64(dots)
	r[4] = float64(strings.Count(url, "/"))
	r[5] = float64(strings.Count(url, "?"))
	r[6] = float64(strings.Count(url, "="))
	r[7] = float64(hyphens)
	r[8] = float64(at)
	r[9] = float64(strings.Count(url, "&"))
	r[10] = float64(strings.Count(url, "#"))
	r[11] = float64(strings.Count(url, "%"))
	r[12] = float64(digits)
	r[13] = float64(letters)
	r[14] = bit(p.scheme == "https")
	r[15] = bit(ipPrefix.MatchString(p.netloc))
	if sub := strings.Count(p.netloc, ".") - 1; sub > 0 {
		r[16] = float64(sub)
	}
	r[17] = bit(containsAny(strings.ToLower(url), e.words))
	r[18] = bit(containsAny(p.netloc, e.shorteners))
	r[19] = float64(digits) / float64(length)
	r[20] = float64(dots+hyphens+at) / float64(length)
	return r, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func bit(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
