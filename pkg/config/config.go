// Package config loads the appariteur TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/roster"
	"github.com/inbtp/appariteur/pkg/store"
	"github.com/inbtp/appariteur/pkg/student"
)

type MissingFieldsError = toml.StrictMissingError

type Config struct {
	API    API    `toml:"api"`
	Import Import `toml:"import"`
}

type API struct {
	// URL is the registrar API base, optionally with a path prefix.
	URL string `toml:"url"`

	// TokenPath is a file whose first line is the bearer token. Optional.
	TokenPath Path `toml:"token_path"`

	// Timeout bounds each request. Zero means no timeout.
	Timeout Duration `toml:"timeout"`

	// CacheExpiry is how long reference data is reused before it is
	// fetched again. Zero keeps it until invalidated.
	CacheExpiry Duration `toml:"cache_expiry"`
}

func (c API) NewClient() (*api.Client, error) {
	var token string
	if c.TokenPath != "" {
		var err error
		token, err = loadFirstLine(string(c.TokenPath))
		if err != nil {
			return nil, errs.New("failed to load API token: %v\n", err)
		}
	}

	client, err := api.NewClient(api.Config{
		URL:     c.URL,
		Token:   token,
		Timeout: time.Duration(c.Timeout),
	})
	if err != nil {
		return nil, errs.New("failed to instantiate API client: %v\n", err)
	}
	return client, nil
}

func (c API) NewStore(log *zap.Logger, source store.Source) (*store.Store, error) {
	return store.New(store.Config{
		Log:    log,
		Source: source,
		Expiry: time.Duration(c.CacheExpiry),
	})
}

type Import struct {
	// PromotionID and AnneeID are the operator's current selection, used
	// for rows that leave their placement empty.
	PromotionID string `toml:"promotion_id"`
	AnneeID     string `toml:"annee_id"`

	// MaxFileSize is the largest roster file the CLI accepts.
	MaxFileSize int64 `toml:"max_file_size"`

	// ReportDir is where result reports and receipts are written.
	ReportDir Path `toml:"report_dir"`
}

func (c Import) Defaults() student.Defaults {
	return student.Defaults{
		PromotionID: c.PromotionID,
		AnneeID:     c.AnneeID,
	}
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	const (
		defaultAPIURL      = "http://localhost:8000/api"
		defaultTimeout     = Duration(0)
		defaultCacheExpiry = Duration(store.DefaultExpiry)
		defaultMaxFileSize = roster.MaxFileSize
		defaultReportDir   = "."
	)

	config := Config{
		API: API{
			URL:         defaultAPIURL,
			Timeout:     defaultTimeout,
			CacheExpiry: defaultCacheExpiry,
		},
		Import: Import{
			MaxFileSize: defaultMaxFileSize,
			ReportDir:   ToPath(defaultReportDir),
		},
	}

	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.API.CacheExpiry < 0 {
		return Config{}, errs.New("api.cache_expiry must not be negative")
	}
	if config.Import.MaxFileSize < 0 {
		return Config{}, errs.New("import.max_file_size must not be negative")
	}

	return config, nil
}

func DumpUnknownFields(err error) string {
	var sme *toml.StrictMissingError
	if errors.As(err, &sme) {
		return sme.String()
	}
	return ""
}
