package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/moamenhredeen/oas/internal/models"
)

// ArtifactPaths returns where WriteArtifact puts the implementation and the declarations
func ArtifactPaths(dir, name string, dialect models.Dialect) (implementation, types string) {
	return filepath.Join(dir, name+dialect.Extension()), filepath.Join(dir, name+"-types.d.ts")
}

// WriteArtifact writes <name>.ts or <name>.mjs and <name>-types.d.ts into
// dir, creating it when needed. It returns the written paths.
func WriteArtifact(dir, name string, dialect models.Dialect, artifact models.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	implPath, typesPath := ArtifactPaths(dir, name, dialect)
	files := []struct {
		path    string
		content string
	}{
		{implPath, artifact.Implementation},
		{typesPath, artifact.Types},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
