package export

import "os"
import "path/filepath"

import "github.com/neurlang/phishnet/net/feedforward"
import "github.com/neurlang/phishnet/onnx"
import "github.com/neurlang/phishnet/scaler"
import "github.com/pkg/errors"

// artifact file names inside the model directory
const (
	ModelFile  = "model.onnx"
	ScalerFile = "scaler.json"
)

// staged is an artifact written to a temporary file next to its destination
type staged struct {
	name string
	tmp  string
}

// stage writes data to a temporary file in dir
func stage(dir, name string, data []byte) (staged, error) {
	f, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return staged{}, errors.Wrapf(err, "stage %s", name)
	}
	s := staged{name: name, tmp: f.Name()}
	if _, err = f.Write(data); err == nil {
		err = f.Chmod(0o644)
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(s.tmp)
		return staged{}, errors.Wrapf(err, "stage %s", name)
	}
	return s, nil
}

// Write exports net and params into dir as ModelFile and ScalerFile. Both artifacts are
// staged first and only renamed into place once both were written, so a failed write or
// encode leaves the previous pair untouched. The renames are not atomic as a pair: if
// ScalerFile fails to rename after ModelFile was published, the directory holds a
// mismatched pair, which inference.Load rejects by its version stamp. The returned error
// names the failing artifact.
func Write(dir string, net *feedforward.FeedforwardNetwork, params *scaler.Params, version string) error {
	if net.Inputs() != params.Len() {
		return errors.Errorf("network takes %d features, scaler has %d", net.Inputs(), params.Len())
	}
	model, err := Model(net, version)
	if err != nil {
		return errors.Wrapf(err, "build %s", ModelFile)
	}
	sidecar, err := NewSidecar(params, version).Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode %s", ScalerFile)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	var files []staged
	cleanup := func() {
		for _, s := range files {
			os.Remove(s.tmp)
		}
	}
	for _, a := range []struct {
		name string
		data []byte
	}{
		{ModelFile, onnx.Marshal(model)},
		{ScalerFile, sidecar},
	} {
		s, err := stage(dir, a.name, a.data)
		if err != nil {
			cleanup()
			return err
		}
		files = append(files, s)
	}

	for i, s := range files {
		if err := os.Rename(s.tmp, filepath.Join(dir, s.name)); err != nil {
			for _, rest := range files[i:] {
				os.Remove(rest.tmp)
			}
			return errors.Wrapf(err, "publish %s", s.name)
		}
	}
	return nil
}
