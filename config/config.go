/*
Package config loads the settings used by the tga command line tool.

Settings are read from a YAML file; any setting not present keeps its
default value and a missing file is not an error.
*/
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// Thumbnail bounds the size of thumbnails stored in the catalog.
type Thumbnail struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds every setting.
type Config struct {
	Database  string    `yaml:"database"`
	RLE       bool      `yaml:"rle"`
	Workers   int       `yaml:"workers"`
	Thumbnail Thumbnail `yaml:"thumbnail"`
	LogLevel  string    `yaml:"log_level"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Database: "tga.db",
		RLE:      true,
		Workers:  10,
		Thumbnail: Thumbnail{
			Width:  64,
			Height: 64,
		},
		LogLevel: "warn",
	}
}

// Load reads file over the top of the defaults.
func Load(file string) (*Config, error) {
	c := Default()

	b, err := ioutil.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", file, err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", file, err)
	}

	return c, nil
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Thumbnail.Width < 1 || c.Thumbnail.Height < 1 {
		return fmt.Errorf("invalid thumbnail size %dx%d", c.Thumbnail.Width, c.Thumbnail.Height)
	}
	return nil
}

// Save writes c to file as YAML.
func (c *Config) Save(file string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(file, b, 0644)
}
