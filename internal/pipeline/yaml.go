package pipeline

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type stageFile struct {
	Stages []StageSpec `yaml:"stages"`
}

// LoadStages decodes a pipeline definition of the form
//
//	stages:
//	  - name: discovery
//	    task: "..."
//	    use_search: true
//
// Graph validation happens in NewOrchestrator.
func LoadStages(r io.Reader) ([]StageSpec, error) {
	var f stageFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, configError("pipeline file is empty")
		}
		return nil, configError("decode pipeline: %v", err)
	}
	return f.Stages, nil
}

// LoadStagesFile is LoadStages for a path.
func LoadStagesFile(path string) ([]StageSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pipeline file: %w", err)
	}
	defer file.Close()
	return LoadStages(file)
}
