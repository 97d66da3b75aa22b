package profile

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

// WriteJSON writes the profiles as one indented JSON array. The file is written next to the
// target and renamed into place; a failed write leaves the target untouched.
func WriteJSON(path string, profiles []*core.WorkloadProfile) (err error) {
	if profiles == nil {
		profiles = []*core.WorkloadProfile{}
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := ioutil.TempFile(dir, "."+base+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(profiles); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
