package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
)

const configFile = "~/.netsketchrc"

type Config struct {
	SaveDirectory string `toml:"save_directory"`
	IconDirectory string `toml:"icon_directory"`
	Confirmations bool   `toml:"confirmations"`
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	PDFCompress   bool   `toml:"pdf_compress"`
	CanvasWidth   int    `toml:"canvas_width"`
	CanvasHeight  int    `toml:"canvas_height"`
}

func defaultConfig() *Config {
	return &Config{
		Confirmations: true,
		LogFile:       "~/.netsketch.log",
		LogLevel:      "info",
		PDFCompress:   true,
	}
}

// loadConfig reads ~/.netsketchrc. A missing file gives the defaults; a file
// that cannot be parsed gives the defaults and an error to report.
func loadConfig() (*Config, error) {
	path, err := homedir.Expand(configFile)
	if err != nil {
		return finishConfig(defaultConfig()), err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	config := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return finishConfig(config), nil
	}
	if err != nil {
		return finishConfig(config), fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return finishConfig(defaultConfig()), fmt.Errorf("parse config %s: %w", path, err)
	}
	return finishConfig(config), nil
}

// finishConfig expands ~ in paths and makes the save directory absolute.
func finishConfig(c *Config) *Config {
	for _, p := range []*string{&c.SaveDirectory, &c.IconDirectory, &c.LogFile} {
		if *p == "" {
			continue
		}
		if expanded, err := homedir.Expand(*p); err == nil {
			*p = expanded
		}
	}
	if c.SaveDirectory != "" && !filepath.IsAbs(c.SaveDirectory) {
		if abs, err := filepath.Abs(c.SaveDirectory); err == nil {
			c.SaveDirectory = abs
		}
	}
	if c.CanvasWidth < 0 || c.CanvasHeight < 0 {
		c.CanvasWidth, c.CanvasHeight = 0, 0
	}
	return c
}

func (c *Config) SavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		log.WithError(err).WithField("path", c.SaveDirectory).Warn("Cannot create save directory")
	}
	return filepath.Join(c.SaveDirectory, filename)
}
