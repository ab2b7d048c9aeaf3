// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the builds matching opts to <dir>/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	records, err := s.List(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.historyDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the builds matching opts to <dir>/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	records, err := s.List(ctx, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.historyDir, "export.json"), data, 0o644)
}
