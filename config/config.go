// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the pipeline configuration from YAML with
// environment-variable overrides for deployment-specific values such as
// endpoints and credentials. A missing config file yields defaults.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SourceConfig locates the documents to ingest.
type SourceConfig struct {
	URI string `yaml:"uri"`

	// S3 holds object-storage credentials, needed only for s3:// URIs.
	S3 *S3Config `yaml:"s3,omitempty"`
}

// S3Config contains connection details for an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ChunkingConfig configures how documents are split into chunks.
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Host       string        `yaml:"host"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Dimension  int           `yaml:"dimension"`
	BatchSize  int           `yaml:"batch_size"`
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// QdrantConfig contains connection details for a Qdrant instance.
type QdrantConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// BadgerConfig configures the embedded index backend.
type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	// Type is "qdrant" or "badger".
	Type       string         `yaml:"type"`
	Collection string         `yaml:"collection"`
	Alias      string         `yaml:"alias"`
	Params     map[string]int `yaml:"params,omitempty"`
	Qdrant     *QdrantConfig  `yaml:"qdrant,omitempty"`
	Badger     *BadgerConfig  `yaml:"badger,omitempty"`
}

// JobConfig holds knobs shared by the job runners.
type JobConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxWait        time.Duration `yaml:"max_wait"`
	StatusFilePath string        `yaml:"status_file_path"`
}

// Config is the root configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Job       JobConfig       `yaml:"job"`
}

// Load reads a config from path, applies defaults and environment
// overrides. A missing file yields defaults; a .env file next to the
// process, when present, is loaded first.
func Load(path string) (*Config, error) {
	// Missing .env is the common case outside local development.
	_ = godotenv.Load()

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			ChunkSize: 512,
			Overlap:   100,
		},
		Embedding: EmbeddingConfig{
			Host:       "https://api.openai.com/v1",
			Model:      "text-embedding-3-small",
			Dimension:  1536,
			BatchSize:  16,
			MaxRetries: 3,
			BaseDelay:  2 * time.Second,
		},
		Index: IndexConfig{
			Type: "qdrant",
			Qdrant: &QdrantConfig{
				URL: "http://localhost:6333",
			},
		},
		Job: JobConfig{
			PollInterval: 5 * time.Second,
			MaxWait:      5 * time.Minute,
		},
	}
}

// applyDefaults fills zero values left behind by a partial config file.
func applyDefaults(cfg *Config) {
	d := defaultConfig()
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = d.Chunking.ChunkSize
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = d.Chunking.Overlap
	}
	if cfg.Embedding.Host == "" {
		cfg.Embedding.Host = d.Embedding.Host
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = d.Embedding.Model
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = d.Embedding.Dimension
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = d.Embedding.BatchSize
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = d.Embedding.MaxRetries
	}
	if cfg.Embedding.BaseDelay == 0 {
		cfg.Embedding.BaseDelay = d.Embedding.BaseDelay
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = d.Index.Type
	}
	if cfg.Index.Type == "qdrant" && cfg.Index.Qdrant == nil {
		cfg.Index.Qdrant = d.Index.Qdrant
	}
	if cfg.Job.PollInterval == 0 {
		cfg.Job.PollInterval = d.Job.PollInterval
	}
	if cfg.Job.MaxWait == 0 {
		cfg.Job.MaxWait = d.Job.MaxWait
	}
}

// applyEnvOverrides maps deployment environment variables over the file
// values. Only set variables override.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SOURCE_URI"); v != "" {
		cfg.Source.URI = v
	}
	if v := os.Getenv("OPENAI_HOST"); v != "" {
		cfg.Embedding.Host = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Dimension = n
		}
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		cfg.Index.Qdrant.URL = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		cfg.Index.Qdrant.APIKey = v
	}
	if v := os.Getenv("INDEX_COLLECTION"); v != "" {
		cfg.Index.Collection = v
	}
	if v := os.Getenv("INDEX_ALIAS"); v != "" {
		cfg.Index.Alias = v
	}
	if v := os.Getenv("STATUS_FILE_PATH"); v != "" {
		cfg.Job.StatusFilePath = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		if cfg.Source.S3 == nil {
			cfg.Source.S3 = &S3Config{}
		}
		cfg.Source.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		if cfg.Source.S3 == nil {
			cfg.Source.S3 = &S3Config{}
		}
		cfg.Source.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		if cfg.Source.S3 == nil {
			cfg.Source.S3 = &S3Config{}
		}
		cfg.Source.S3.SecretKey = v
	}
}
