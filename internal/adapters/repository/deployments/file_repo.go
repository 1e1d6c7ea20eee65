package deployments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/wighawag/rocketh-go/internal/domain"
	"github.com/wighawag/rocketh-go/internal/domain/models"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

const (
	DeploymentsDir  = "deployments"
	DeploymentsFile = "deployments.json"
)

// FileRepository stores the deployments of one network in a json file on the system
type FileRepository struct {
	path        string
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
}

// NewFileRepository opens the registry at <dataDir>/deployments/<network>/deployments.json
func NewFileRepository(dataDir, network string) (*FileRepository, error) {
	if network == "" {
		network = "default"
	}
	dir := filepath.Join(dataDir, DeploymentsDir, network)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create deployments directory: %w", err)
	}

	r := &FileRepository{
		path:        filepath.Join(dir, DeploymentsFile),
		deployments: make(map[string]*models.Deployment),
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return r, nil
}

// Path returns the registry file location
func (r *FileRepository) Path() string {
	return r.path
}

// load reads the registry file, a missing file is an empty registry
func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Numbers stay json.Number so large constructor args survive the round trip
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&r.deployments); err != nil {
		return fmt.Errorf("failed to parse %s: %w", r.path, err)
	}
	if r.deployments == nil {
		r.deployments = make(map[string]*models.Deployment)
	}
	for name, dep := range r.deployments {
		if dep == nil {
			return fmt.Errorf("failed to parse %s: deployment %s has no record", r.path, name)
		}
		dep.Name = name
	}
	return nil
}

// save writes the registry file. Caller must hold the write lock.
func (r *FileRepository) save() error {
	data, err := json.MarshalIndent(r.deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, r.path)
}

// Deployment returns the record stored under name
func (r *FileRepository) Deployment(_ context.Context, name string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dep, ok := r.deployments[name]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", name, domain.ErrNotFound)
	}
	return dep.Clone(), nil
}

// RegisterDeployment stores deployment under name, replacing any previous record
func (r *FileRepository) RegisterDeployment(_ context.Context, name string, deployment *models.Deployment) error {
	if name == "" {
		return fmt.Errorf("deployment name is required")
	}
	if deployment == nil {
		return fmt.Errorf("deployment %s has no record", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.deployments[name]
	record := deployment.Clone()
	record.Name = name
	r.deployments[name] = record

	if err := r.save(); err != nil {
		// Keep memory consistent with disk
		if existed {
			r.deployments[name] = previous
		} else {
			delete(r.deployments, name)
		}
		return fmt.Errorf("failed to save deployments: %w", err)
	}
	return nil
}

// ListDeployments returns every record, oldest first
func (r *FileRepository) ListDeployments(_ context.Context) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Deployment, 0, len(r.deployments))
	for _, dep := range r.deployments {
		out = append(out, dep.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentRegistry = (*FileRepository)(nil)
