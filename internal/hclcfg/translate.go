package hclcfg

import (
	"fmt"

	"github.com/vk/interopqc/internal/config"
	"github.com/vk/interopqc/internal/schema"
)

// Definition-level defaults applied when a block or attribute is omitted.
const (
	defaultMetadataGlob = "*.xml"
	defaultInterOpGlob  = "*.bin"
	defaultInterOpDir   = "InterOp"
	defaultRetries      = 1
)

// translate converts the HCL-specific pipeline schema into the agnostic model,
// applying defaults for omitted attributes.
func translate(s *schema.Pipeline) (*config.Pipeline, error) {
	if s.Task == nil {
		return nil, fmt.Errorf("pipeline %q: task block is required", s.Name)
	}

	p := &config.Pipeline{
		Name: s.Name,
		Staging: config.Staging{
			MetadataGlob:        defaultMetadataGlob,
			InterOpGlob:         defaultInterOpGlob,
			InterOpDir:          defaultInterOpDir,
			RequireInterOpFiles: true,
		},
	}

	if s.Staging != nil {
		if s.Staging.MetadataGlob != "" {
			p.Staging.MetadataGlob = s.Staging.MetadataGlob
		}
		if s.Staging.InterOpGlob != "" {
			p.Staging.InterOpGlob = s.Staging.InterOpGlob
		}
		if s.Staging.InterOpDir != "" {
			p.Staging.InterOpDir = s.Staging.InterOpDir
		}
		if s.Staging.RequireInterOpFiles != nil {
			p.Staging.RequireInterOpFiles = *s.Staging.RequireInterOpFiles
		}
	}

	p.Task = config.Task{
		Image:    s.Task.Image,
		CPUs:     s.Task.CPUs,
		MemoryMB: s.Task.MemoryMB,
		Retries:  defaultRetries,
	}
	if s.Task.Retries != nil {
		p.Task.Retries = *s.Task.Retries
	}
	for _, e := range s.Task.Execs {
		p.Task.Execs = append(p.Task.Execs, e.Argv)
	}
	for _, out := range s.Task.Outputs {
		p.Task.Outputs = append(p.Task.Outputs, config.Output{
			Name:     out.Name,
			Optional: out.Optional,
		})
	}

	return p, nil
}
