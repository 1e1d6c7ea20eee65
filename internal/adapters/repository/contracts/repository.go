package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

const maxSuggestions = 3

// Options configure where artifacts are read from
type Options struct {
	ProjectRoot string
	// ArtifactsDir is relative to ProjectRoot unless absolute. Defaults to "out".
	ArtifactsDir string
	// Build runs `forge build` in ProjectRoot before indexing
	Build bool
}

// Repository indexes compiled artifacts by contract name
type Repository struct {
	opts          Options
	artifacts     map[string]*models.Artifact   // key: "path:contractName"
	contractNames map[string][]*models.Artifact // key: contract name
	log           *slog.Logger
	mu            sync.RWMutex
	indexed       bool
}

// NewRepository creates a new artifact index
func NewRepository(opts Options, log *slog.Logger) *Repository {
	if opts.ArtifactsDir == "" {
		opts.ArtifactsDir = "out"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Repository{
		opts:          opts,
		log:           log,
		artifacts:     make(map[string]*models.Artifact),
		contractNames: make(map[string][]*models.Artifact),
	}
}

func (r *Repository) artifactsDir() string {
	if filepath.IsAbs(r.opts.ArtifactsDir) {
		return r.opts.ArtifactsDir
	}
	return filepath.Join(r.opts.ProjectRoot, r.opts.ArtifactsDir)
}

// Index discovers all artifacts once
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	r.artifacts = make(map[string]*models.Artifact)
	r.contractNames = make(map[string][]*models.Artifact)

	if r.opts.Build {
		if err := r.runForgeBuild(); err != nil {
			return fmt.Errorf("failed to build contracts: %w", err)
		}
	}

	dir := r.artifactsDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("artifacts directory not found: %s", dir)
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		r.processArtifact(path)
		return nil
	})
	if err != nil {
		return err
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "dir", dir, "count", len(r.artifacts))
	return nil
}

// runForgeBuild runs forge build command
func (r *Repository) runForgeBuild() error {
	cmd := exec.Command("forge", "build")
	cmd.Dir = r.opts.ProjectRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("forge build failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// processArtifact indexes a single artifact file. Files that aren't deployable
// artifacts (interfaces, abstract contracts, unrelated json) are skipped.
func (r *Repository) processArtifact(artifactPath string) {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		r.log.Debug("skipping unreadable artifact", "path", artifactPath, "error", err)
		return
	}

	var file models.ArtifactFile
	if err := json.Unmarshal(data, &file); err != nil || len(file.ABI) == 0 {
		return
	}
	if code := file.BytecodeHex(); code == "" || code == "0x" {
		return
	}

	contractName, sourceName := artifactNames(artifactPath, &file)

	artifact, err := models.NewArtifact(contractName, &file)
	if err != nil {
		r.log.Debug("skipping artifact", "path", artifactPath, "error", err)
		return
	}
	artifact.Path = sourceName
	artifact.ArtifactPath = artifactPath
	if rel, err := filepath.Rel(r.opts.ProjectRoot, artifactPath); err == nil {
		artifact.ArtifactPath = rel
	}

	key := contractName
	if sourceName != "" {
		key = fmt.Sprintf("%s:%s", sourceName, contractName)
	}
	r.artifacts[key] = artifact
	r.contractNames[contractName] = append(r.contractNames[contractName], artifact)
}

// artifactNames extracts the contract name and source path. Foundry records them in
// the compilation target, other layouts fall back to contractName or the file name.
func artifactNames(artifactPath string, file *models.ArtifactFile) (contractName, sourceName string) {
	for source, contract := range file.Metadata.Settings.CompilationTarget {
		return contract, source
	}
	if file.ContractName != "" {
		return file.ContractName, ""
	}
	return strings.TrimSuffix(filepath.Base(artifactPath), ".json"), ""
}

// ContractInfo returns the artifact of contractName ("Name" or "path:Name")
func (r *Repository) ContractInfo(_ context.Context, contractName string) (*models.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if artifact, ok := r.artifacts[contractName]; ok {
		return artifact, nil
	}

	candidates := r.contractNames[contractName]
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &domain.ContractNotFoundErr{Name: contractName, Suggestions: r.suggest(contractName)}
	default:
		paths := lo.Map(candidates, func(a *models.Artifact, _ int) string {
			return fmt.Sprintf("%s:%s", a.Path, a.Name)
		})
		sort.Strings(paths)
		return nil, fmt.Errorf("multiple contracts named %s, use one of: %s", contractName, strings.Join(paths, ", "))
	}
}

// ContractNames returns the sorted names of all indexed contracts
func (r *Repository) ContractNames(_ context.Context) []string {
	if err := r.Index(); err != nil {
		r.log.Warn("failed to index artifacts", "error", err)
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.contractNames)
	sort.Strings(names)
	return names
}

// suggest returns the closest contract names. Caller must hold the read lock.
func (r *Repository) suggest(name string) []string {
	names := lo.Keys(r.contractNames)
	sort.Strings(names)

	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		// Fuzzy matching needs the pattern in order, also try case-insensitive prefix
		prefix := strings.ToLower(name[:min(len(name), 3)])
		similar := lo.Filter(names, func(n string, _ int) bool {
			return strings.HasPrefix(strings.ToLower(n), prefix)
		})
		return similar[:min(len(similar), maxSuggestions)]
	}
	return lo.Map(matches[:min(len(matches), maxSuggestions)], func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactSource = (*Repository)(nil)
