package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-performance/internal/performance"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	schemaName = "performance-config.json"
	configDir  = "./config"
)

func validatePaths(schemaPath string, sampleConfigPath string) error {
	if schemaPath == "" {
		return errors.New(errors.ErrCodeMissingParameter, "schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return errors.New(errors.ErrCodeMissingParameter, "sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeMissingParameter, "schema name cannot be empty")
	}

	if filepath.Ext(name) != ".json" {
		return errors.Newf(errors.ErrCodeInvalidInput, "schema name %q must have .json extension", name)
	}

	return nil
}

// getSchemaReference returns the yaml-language-server header pointing at the schema.
func getSchemaReference(name string) string {
	return "# yaml-language-server: $schema=" + name + "\n"
}

func generateSchemaFile(config performance.Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create directory", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write schema to file", err)
	}

	return nil
}

// generateSampleConfig writes the config as YAML unless the file already exists.
func generateSampleConfig(config performance.Config, samplePath string, schemaName string) error {
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal sample config to yaml", err)
	}

	content := getSchemaReference(schemaName) + string(yamlBytes)

	if err := os.MkdirAll(filepath.Dir(samplePath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create directory", err)
	}

	if err := os.WriteFile(samplePath, []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write sample config to file", err)
	}

	return nil
}

func main() {
	config := performance.DefaultConfig()

	schemaPath := filepath.Join(configDir, schemaName)
	sampleConfigPath := filepath.Join(configDir, strings.TrimSuffix(schemaName, ".json")+".yaml")

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		log.Fatal(err)
	}

	if err := validateSchemaName(schemaName); err != nil {
		log.Fatal(err)
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		log.Fatal(err)
	}

	if err := generateSampleConfig(config, sampleConfigPath, schemaName); err != nil {
		log.Fatal(err)
	}

	log.Printf("Schema generated at %s, sample config at %s", schemaPath, sampleConfigPath)
}
