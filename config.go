package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是 YAML 配置文件的结构，字段与命令行选项一一对应
type Config struct {
	Data      string `yaml:"data"`
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
	Sort      *bool  `yaml:"sort"`
	PDF       bool   `yaml:"pdf"`
	HTML      bool   `yaml:"html"`
}

// LoadConfig 从 YAML 文件加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	// 校验必要字段
	if config.Data != "" && config.Input != "" {
		return nil, fmt.Errorf("data and input are mutually exclusive")
	}
	if config.MaxWidth < 0 || config.MaxHeight < 0 {
		return nil, fmt.Errorf("max_width and max_height must not be negative")
	}
	return &config, nil
}

// SaveConfig 把配置写回 YAML 文件
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// applyConfig 把配置文件的值填进未被命令行显式设置的选项
func applyConfig(cfg *Config, opts *Options) {
	if opts.DataPath == "" {
		opts.DataPath = cfg.Data
	}
	if opts.InputDir == "" {
		opts.InputDir = cfg.Input
	}
	if opts.OutputDir == "output" && cfg.Output != "" {
		opts.OutputDir = cfg.Output
	}
	if opts.MaxWidth == 0 {
		opts.MaxWidth = cfg.MaxWidth
	}
	if opts.MaxHeight == 0 {
		opts.MaxHeight = cfg.MaxHeight
	}
	if cfg.Sort != nil && opts.IsFilesSort {
		opts.IsFilesSort = *cfg.Sort
	}
	if cfg.PDF {
		opts.IsPDF = true
	}
	if cfg.HTML {
		opts.IsHTML = true
	}
}
