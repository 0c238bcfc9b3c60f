package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacxt/spacxt/bootstrap"
	"github.com/spacxt/spacxt/graph"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func loadScene(path string) (graph.BootstrapScene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.BootstrapScene{}, fmt.Errorf("read %s: %w", path, err)
	}
	if isYAML(path) {
		return bootstrap.DecodeYAML(data)
	}
	return bootstrap.DecodeJSON(data)
}

func writeScene(path string, export graph.Export) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = bootstrap.EncodeExportYAML(export)
	} else {
		data, err = bootstrap.EncodeExportJSON(export)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
