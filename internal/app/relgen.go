package app

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

//go:embed templates/release.yml.tmpl
var workflowTemplates embed.FS

// Package is one entry of the fixed release matrix. An empty WorkingDir
// means the package lives at the repository root.
type Package struct {
	Name       string `json:"name"`
	WorkingDir string `json:"workingDir,omitempty"`
}

var ReleasePackages = []Package{
	{Name: "databricks-ai-bridge"},
	{Name: "databricks-langchain", WorkingDir: "integrations/langchain"},
	{Name: "databricks-mcp", WorkingDir: "databricks_mcp"},
	{Name: "databricks-openai", WorkingDir: "integrations/openai"},
}

type GenerateOptions struct {
	OutDir        string
	PythonVersion string
}

type workflowData struct {
	Name          string
	WorkingDir    string
	IsRoot        bool
	DistPath      string
	PythonVersion string
}

func newWorkflowData(pkg Package, pythonVersion string) workflowData {
	data := workflowData{
		Name:          pkg.Name,
		WorkingDir:    pkg.WorkingDir,
		IsRoot:        pkg.WorkingDir == "",
		DistPath:      "dist/",
		PythonVersion: pythonVersion,
	}
	if !data.IsRoot {
		data.DistPath = pkg.WorkingDir + "/dist/"
	}
	return data
}

// The workflow body carries GitHub ${{ }} expressions, so the Go template
// uses [[ ]] delimiters to stay out of their way.
var releaseTemplate = sync.OnceValues(func() (*template.Template, error) {
	return template.New("release.yml.tmpl").
		Delims("[[", "]]").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(workflowTemplates, "templates/release.yml.tmpl")
})

// RenderReleaseWorkflow renders the workflow for one package and checks
// that the output still parses as YAML, so a template regression fails
// generation instead of shipping a broken workflow.
func RenderReleaseWorkflow(pkg Package, pythonVersion string) ([]byte, error) {
	tmpl, err := releaseTemplate()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newWorkflowData(pkg, pythonVersion)); err != nil {
		return nil, fmt.Errorf("render workflow for %s: %w", pkg.Name, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("rendered workflow for %s is not valid YAML: %w", pkg.Name, err)
	}
	return buf.Bytes(), nil
}

func workflowFileName(pkg Package) string {
	return "release-" + pkg.Name + ".yml"
}

// GenerateWorkflows renders every package workflow into opts.OutDir,
// writing each file atomically.
func GenerateWorkflows(opts GenerateOptions) ([]WorkflowResult, error) {
	if err := ensureDir(opts.OutDir); err != nil {
		return nil, err
	}
	results := make([]WorkflowResult, 0, len(ReleasePackages))
	for _, pkg := range ReleasePackages {
		rendered, err := RenderReleaseWorkflow(pkg, opts.PythonVersion)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(opts.OutDir, workflowFileName(pkg))
		if err := writeFileAtomic(path, rendered, 0o644); err != nil {
			return nil, err
		}
		results = append(results, WorkflowResult{Package: pkg.Name, Path: path, Status: WorkflowWritten})
	}
	return results, nil
}

// CheckWorkflows compares rendered output against the files on disk
// without writing anything. Drift reports as stale or missing.
func CheckWorkflows(opts GenerateOptions) ([]WorkflowResult, error) {
	results := make([]WorkflowResult, 0, len(ReleasePackages))
	for _, pkg := range ReleasePackages {
		rendered, err := RenderReleaseWorkflow(pkg, opts.PythonVersion)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(opts.OutDir, workflowFileName(pkg))
		existing, err := os.ReadFile(path)
		status := WorkflowUpToDate
		switch {
		case os.IsNotExist(err):
			status = WorkflowMissing
		case err != nil:
			return nil, err
		case !bytes.Equal(existing, rendered):
			status = WorkflowStale
		}
		results = append(results, WorkflowResult{Package: pkg.Name, Path: path, Status: status})
	}
	return results, nil
}
