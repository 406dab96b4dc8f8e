package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/manifoldco/promptui"
	"github.com/zeebo/clingy"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"

	"github.com/inbtp/appariteur/pkg/api"
	"github.com/inbtp/appariteur/pkg/config"
	"github.com/inbtp/appariteur/pkg/fancy"
	"github.com/inbtp/appariteur/pkg/report"
	"github.com/inbtp/appariteur/pkg/store"
)

func promptConfirm(label string) error {
	_, err := (&promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}).Run()
	if err != nil {
		return errors.New("aborted")
	}
	return nil
}

func errorIfNonZero[T constraints.Integer](v T) fancy.Level {
	if v != 0 {
		return fancy.Error
	}
	return fancy.Info
}

func successIfPositive[T constraints.Integer](v T) fancy.Level {
	if v > 0 {
		return fancy.Success
	}
	return fancy.Info
}

// common carries the flags shared by every command that talks to the
// registrar.
type common struct {
	config    string
	dataDir   string
	promotion string
	annee     string
	verbose   bool
}

func (c *common) setup(params clingy.Parameters) {
	c.config = stringFlag(params, "config", "The configuration file", "./config.toml")
	c.dataDir = stringFlag(params, "data-dir", "Directory holding the run logs", defaultDataDir())
	c.promotion = stringFlag(params, "promotion", "Promotion id; overrides import.promotion_id", "")
	c.annee = stringFlag(params, "annee", "Academic year id; overrides import.annee_id", "")
	c.verbose = toggleFlag(params, "verbose", "Also print debug logs to the console", false)
}

// env is what a command needs once the configuration is loaded.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	client *api.Client
	store  *store.Store
}

func (c *common) open(ctx context.Context) (*env, error) {
	cfg, err := config.Load(c.config)
	if err != nil {
		var mfe *config.MissingFieldsError
		if errors.As(err, &mfe) {
			return nil, fmt.Errorf("unable to load config:\n%s", mfe.String())
		}
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	if c.promotion != "" {
		cfg.Import.PromotionID = c.promotion
	}
	if c.annee != "" {
		cfg.Import.AnneeID = c.annee
	}

	log, err := openLog(c.dataDir, c.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	client, err := cfg.API.NewClient()
	if err != nil {
		return nil, err
	}

	st, err := cfg.API.NewStore(log, client)
	if err != nil {
		return nil, err
	}

	log.Debug("Configuration loaded",
		zap.String("config", c.config),
		zap.String("api", cfg.API.URL),
		zap.String("promotion", cfg.Import.PromotionID),
		zap.String("annee", cfg.Import.AnneeID),
	)

	return &env{cfg: cfg, log: log, client: client, store: st}, nil
}

// placement resolves the configured promotion and academic year for
// display. Either may be nil when unset or unknown to the registrar.
func (e *env) placement(ctx context.Context) (*api.Promotion, *api.Annee, error) {
	var promotion *api.Promotion
	var annee *api.Annee
	var err error
	if id := e.cfg.Import.PromotionID; id != "" {
		promotion, err = e.store.Promotion(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load promotions: %w", err)
		}
		if promotion == nil {
			e.log.Warn("Unknown promotion", zap.String("promotion", id))
			promotion = &api.Promotion{ID: id}
		}
	}
	if id := e.cfg.Import.AnneeID; id != "" {
		annee, err = e.store.Annee(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load academic years: %w", err)
		}
		if annee == nil {
			e.log.Warn("Unknown academic year", zap.String("annee", id))
			annee = &api.Annee{ID: id}
		}
	}
	return promotion, annee, nil
}

// refreshRosters drops the cached rosters of the given promotions and reads
// them back from the registrar, printing the counts it now holds. The empty
// promotion stands for every student.
func refreshRosters(ctx context.Context, w io.Writer, st *store.Store, promotionIDs []string) error {
	unique := make(map[string]struct{}, len(promotionIDs))
	for _, id := range promotionIDs {
		unique[id] = struct{}{}
	}
	ids := maps.Keys(unique)
	slices.Sort(ids)

	st.Reload(ids...)
	for _, id := range ids {
		students, err := st.Students(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload students: %w", err)
		}
		label := "All promotions"
		if id != "" {
			label = "Promotion " + id
		}
		fancy.Finfof(w, "%s: %s\n", label, report.Stats(students))
	}
	return nil
}
