package export

import "encoding/json"
import "os"

import "github.com/neurlang/phishnet/scaler"
import "github.com/pkg/errors"

// Sidecar is the JSON document holding the normalization parameters next to the model
type Sidecar struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names"`
	Version      string    `json:"version"`
}

// NewSidecar creates the sidecar of params stamped with version
func NewSidecar(params *scaler.Params, version string) Sidecar {
	return Sidecar{
		Mean:         params.Mean,
		Scale:        params.Scale,
		FeatureNames: params.FeatureNames,
		Version:      version,
	}
}

// Params returns the normalization parameters of the sidecar
func (s Sidecar) Params() *scaler.Params {
	return &scaler.Params{FeatureNames: s.FeatureNames, Mean: s.Mean, Scale: s.Scale}
}

// Marshal encodes the sidecar as two-space indented JSON
func (s Sidecar) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// ReadSidecar decodes the sidecar file at path
func ReadSidecar(path string) (s Sidecar, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, errors.Wrapf(err, "decode %s", path)
	}
	return s, nil
}
