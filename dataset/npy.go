// Package dataset provides synthetic data generators and NumPy .npy file
// I/O for feature matrices.
package dataset

import (
	"os"

	"github.com/sbinet/npyio"
	"github.com/yoshoku/rumale/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LoadMatrix reads a two-dimensional .npy file into a dense matrix.
func LoadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: opening %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: reading npy header of %s", path)
	}

	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, errors.Wrapf(err, "dataset: reading npy data of %s", path)
	}
	return m, nil
}

// SaveMatrix writes a matrix to path in .npy format.
func SaveMatrix(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "dataset: creating %s", path)
	}

	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return errors.Wrapf(err, "dataset: writing npy data to %s", path)
	}
	return f.Close()
}
