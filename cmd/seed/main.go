// Command seed loads campaign and template definitions from a YAML fixture
// file into the database. It is idempotent: campaigns, steps, and templates
// are upserted by key, and steps past the end of a shortened campaign are
// removed. Run it after every deploy that changes seed/campaigns.yaml.
//
//	go run ./cmd/seed -file seed/campaigns.yaml
package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/sqlc-dev/pqtype"
	"gopkg.in/yaml.v3"

	"github.com/nyashahama/campaign-dispatch-engine/internal/campaign"
	"github.com/nyashahama/campaign-dispatch-engine/internal/config"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
)

// ─── FIXTURE TYPES ────────────────────────────────────────────────────────────

type fixtureFile struct {
	Campaigns []fixtureCampaign `yaml:"campaigns"`
	Templates []fixtureTemplate `yaml:"templates"`
}

type fixtureCampaign struct {
	Key    string        `yaml:"key"`
	Name   string        `yaml:"name"`
	Active bool          `yaml:"active"`
	Steps  []fixtureStep `yaml:"steps"`
}

type fixtureStep struct {
	Template       string                   `yaml:"template"`
	DelayHours     int32                    `yaml:"delay_hours"`
	StopConditions []campaign.StopCondition `yaml:"stop_conditions"`
}

type fixtureTemplate struct {
	Key      string `yaml:"key"`
	Language string `yaml:"language"`
	Subject  string `yaml:"subject"`
	Body     string `yaml:"body"`
	CTA      string `yaml:"cta"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	file := flag.String("file", "seed/campaigns.yaml", "path to the fixture file")
	flag.Parse()

	if err := run(logger, *file); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	fixtures, err := loadFixtures(path, cfg.DefaultLanguage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()
	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	q := db.New(pool)

	for _, tmpl := range fixtures.Templates {
		if _, err := q.UpsertTemplate(ctx, db.UpsertTemplateParams{
			Key:      tmpl.Key,
			Language: tmpl.Language,
			Subject:  tmpl.Subject,
			Body:     tmpl.Body,
			Cta:      sql.NullString{String: tmpl.CTA, Valid: tmpl.CTA != ""},
		}); err != nil {
			return fmt.Errorf("upsert template %s/%s: %w", tmpl.Key, tmpl.Language, err)
		}
	}
	logger.Info("templates upserted", "count", len(fixtures.Templates))

	for _, camp := range fixtures.Campaigns {
		if err := seedCampaign(ctx, q, camp); err != nil {
			return fmt.Errorf("campaign %q: %w", camp.Key, err)
		}
		logger.Info("campaign upserted", "key", camp.Key, "steps", len(camp.Steps), "active", camp.Active)
	}

	return nil
}

func seedCampaign(ctx context.Context, q db.Querier, camp fixtureCampaign) error {
	if _, err := q.UpsertCampaign(ctx, db.UpsertCampaignParams{
		Key:    camp.Key,
		Name:   camp.Name,
		Active: camp.Active,
	}); err != nil {
		return fmt.Errorf("upsert campaign: %w", err)
	}

	for i, step := range camp.Steps {
		var conds pqtype.NullRawMessage
		if len(step.StopConditions) > 0 {
			raw, err := json.Marshal(step.StopConditions)
			if err != nil {
				return fmt.Errorf("step %d: marshal stop conditions: %w", i, err)
			}
			conds = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
		}

		if _, err := q.UpsertCampaignStep(ctx, db.UpsertCampaignStepParams{
			CampaignKey:    camp.Key,
			StepIndex:      int32(i),
			TemplateKey:    step.Template,
			DelayHours:     step.DelayHours,
			StopConditions: conds,
		}); err != nil {
			return fmt.Errorf("upsert step %d: %w", i, err)
		}
	}

	// Remove trailing steps left over from a longer previous version of the
	// campaign. Enrollments sitting on a removed step complete at the next
	// dispatch run, since the step lookup comes back empty.
	if _, err := q.DeleteCampaignStepsFrom(ctx, db.DeleteCampaignStepsFromParams{
		CampaignKey: camp.Key,
		StepIndex:   int32(len(camp.Steps)),
	}); err != nil {
		return fmt.Errorf("trim removed steps: %w", err)
	}

	return nil
}

// loadFixtures parses and validates the fixture file. All referential checks
// happen here so a bad fixture fails the seed run instead of surfacing as a
// missing template at dispatch time.
func loadFixtures(path, defaultLanguage string) (fixtureFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixtureFile{}, fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures fixtureFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fixtures); err != nil {
		return fixtureFile{}, fmt.Errorf("parse fixtures: %w", err)
	}

	// Templates available in the default language, by key.
	defaultTemplates := make(map[string]bool)
	seenTemplates := make(map[string]bool)
	for _, tmpl := range fixtures.Templates {
		if tmpl.Key == "" || tmpl.Language == "" || tmpl.Subject == "" || tmpl.Body == "" {
			return fixtureFile{}, fmt.Errorf("template %q/%q: key, language, subject, and body are required", tmpl.Key, tmpl.Language)
		}
		id := tmpl.Key + "/" + tmpl.Language
		if seenTemplates[id] {
			return fixtureFile{}, fmt.Errorf("duplicate template %s", id)
		}
		seenTemplates[id] = true
		if tmpl.Language == defaultLanguage {
			defaultTemplates[tmpl.Key] = true
		}
	}

	seenCampaigns := make(map[string]bool)
	for _, camp := range fixtures.Campaigns {
		if camp.Key == "" || camp.Name == "" {
			return fixtureFile{}, fmt.Errorf("campaign %q: key and name are required", camp.Key)
		}
		if seenCampaigns[camp.Key] {
			return fixtureFile{}, fmt.Errorf("duplicate campaign %q", camp.Key)
		}
		seenCampaigns[camp.Key] = true
		if len(camp.Steps) == 0 {
			return fixtureFile{}, fmt.Errorf("campaign %q has no steps", camp.Key)
		}

		for i, step := range camp.Steps {
			if step.Template == "" {
				return fixtureFile{}, fmt.Errorf("campaign %q step %d: template is required", camp.Key, i)
			}
			if step.DelayHours < 0 {
				return fixtureFile{}, fmt.Errorf("campaign %q step %d: delay_hours must be >= 0", camp.Key, i)
			}
			// Every step needs at least a default-language template, or the
			// dispatcher's fallback has nothing to fall back to.
			if !defaultTemplates[step.Template] {
				return fixtureFile{}, fmt.Errorf("campaign %q step %d: template %q has no %s version",
					camp.Key, i, step.Template, defaultLanguage)
			}
			if err := campaign.ValidateStopConditions(step.StopConditions); err != nil {
				return fixtureFile{}, fmt.Errorf("campaign %q step %d: %w", camp.Key, i, err)
			}
		}
	}

	return fixtures, nil
}
