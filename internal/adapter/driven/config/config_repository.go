package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/bigrivercalc-go/internal/domain/repository"
	"github.com/diillson/bigrivercalc-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile lê um arquivo TOML, YAML ou JSON, escolhido pela extensão.
// Nenhum default é aplicado aqui.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &types.Config{}
	if err := decode(strings.ToLower(filepath.Ext(filePath)), data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(ext string, data []byte, cfg *types.Config) error {
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

// Load monta a configuração efetiva: arquivo (se houver), depois BIGRIVER_*, depois defaults.
// Um caminho vazio cai para BIGRIVER_CONFIG.
func Load(repo repository.ConfigRepository, filePath string) (*types.Config, error) {
	if filePath == "" {
		filePath = os.Getenv(types.EnvConfigFile)
	}

	cfg := &types.Config{}
	if filePath != "" {
		loaded, err := repo.LoadConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
