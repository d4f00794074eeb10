package testsupport

import (
	"os"
	"path/filepath"
)

// LoadFixture reads a file under testdata/.
func LoadFixture(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join("testdata", name))
}
