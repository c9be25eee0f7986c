package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coachvis/coachtree/pkg/pipeline"
)

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input path used to derive default output names
	output    string // explicit output path or base path, may be empty
	cacheHit  bool
}

// writeArtifacts writes each rendered artifact to disk and prints the result
// summary. A single format with an explicit output writes exactly that path;
// otherwise each format gets <base>.<format>.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := base + "." + format
		if p.output != "" && len(p.formats) == 1 {
			path = p.output
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	if p.cacheHit {
		printDetail("served from cache")
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// An empty output falls back to the input path; a known format extension on
// the output is stripped so multiple formats fan out cleanly.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
