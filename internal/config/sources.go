package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/newsnow/internal/logger"
	"github.com/deusflow/newsnow/internal/news"
)

// SourcesConfig is the YAML layout of the sources file:
//
//	sources:
//	  - name: BBC World
//	    feed_url: http://feeds.bbci.co.uk/news/world/rss.xml
//	    default_image_url: https://...
type SourcesConfig struct {
	Sources []news.FeedSource `yaml:"sources"`
}

// DefaultSources is used when no sources file exists.
func DefaultSources() []news.FeedSource {
	return []news.FeedSource{
		{
			Name:            "BBC World",
			FeedURL:         "http://feeds.bbci.co.uk/news/world/rss.xml",
			DefaultImageURL: "https://upload.wikimedia.org/wikipedia/commons/4/4e/BBC_News_2019.svg",
		},
		{
			Name:            "Variety",
			FeedURL:         "https://variety.com/feed/",
			DefaultImageURL: "https://variety.com/wp-content/uploads/2021/01/variety-logo-one-line-black.png",
		},
		{
			Name:            "Reuters",
			FeedURL:         "https://www.reutersagency.com/feed/?best-topics=political-general&post_type=best",
			DefaultImageURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8d/Reuters_Logo.svg/1200px-Reuters_Logo.svg.png",
		},
	}
}

// LoadSources reads the sources file at path. A missing file falls back
// to DefaultSources.
func LoadSources(path string) (news.Sources, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Sources file not found, using built-in sources", "path", path)
			return news.NewSources(DefaultSources())
		}
		return news.Sources{}, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return news.Sources{}, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		return news.Sources{}, fmt.Errorf("sources file %s lists no sources", path)
	}

	return news.NewSources(cfg.Sources)
}
