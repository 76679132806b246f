// Package profile loads the HCL staging profile that configures a pipeline
// run. A profile declares where input files live, how they are matched, and
// where the manifest, dataset, and application workspace go.
package profile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
)

// DefaultPattern matches antiSMASH region files one directory below the
// input root.
const DefaultPattern = "*/region*.gbk"

// Application configures the optional downstream analysis step.
type Application struct {
	Workspace  string `hcl:"workspace"`
	SourceType string `hcl:"source_type"`
}

// Profile is one fully validated staging configuration.
type Profile struct {
	Name        string       `hcl:"name,label"`
	InputDir    string       `hcl:"input_dir"`
	Pattern     string       `hcl:"pattern,optional"`
	Manifest    string       `hcl:"manifest"`
	DatasetDir  string       `hcl:"dataset_dir"`
	Overwrite   bool         `hcl:"overwrite,optional"`
	Partitions  int          `hcl:"partitions,optional"`
	Application *Application `hcl:"application,block"`
}

// fileRoot decodes the top level of a profile file.
type fileRoot struct {
	Stagings []*Profile `hcl:"staging,block"`
	Remain   hcl.Body   `hcl:",remain"`
}

// Load parses and validates the staging profile at path. Profiles may
// reference process environment variables as env.NAME inside any expression.
func Load(ctx context.Context, path string) (*Profile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Profile loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %w", path, diags)
	}

	if len(root.Stagings) != 1 {
		return nil, fmt.Errorf("profile %s must declare exactly one staging block, found %d", path, len(root.Stagings))
	}

	prof := root.Stagings[0]
	applyDefaults(prof)
	if err := validate(prof); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	logger.Debug("Profile loaded.", "name", prof.Name, "input_dir", prof.InputDir, "partitions", prof.Partitions)
	return prof, nil
}

// evalContext exposes the process environment to profile expressions.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// applyDefaults fills the optional knobs a profile may omit.
func applyDefaults(p *Profile) {
	if p.Pattern == "" {
		p.Pattern = DefaultPattern
	}
	if p.Partitions == 0 {
		p.Partitions = 1
	}
}

// validate enforces the profile invariants after defaulting.
func validate(p *Profile) error {
	switch {
	case p.InputDir == "":
		return fmt.Errorf("input_dir must not be empty")
	case p.Manifest == "":
		return fmt.Errorf("manifest must not be empty")
	case p.DatasetDir == "":
		return fmt.Errorf("dataset_dir must not be empty")
	case p.Partitions < 1:
		return fmt.Errorf("partitions must be >= 1, got %d", p.Partitions)
	}
	if app := p.Application; app != nil {
		if app.Workspace == "" {
			return fmt.Errorf("application workspace must not be empty")
		}
		if app.SourceType == "" {
			return fmt.Errorf("application source_type must not be empty")
		}
	}
	return nil
}
