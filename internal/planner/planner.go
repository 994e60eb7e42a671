package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"log/slog"

	"filekeeper/internal/catalog"
	"filekeeper/internal/config"
	"filekeeper/internal/logging"
)

// organizedDirName roots the dated layout under each scan root.
const organizedDirName = "Organized"

// Planner builds organization, archival, and duplicate plans from records.
type Planner struct {
	mode         string
	includeOther bool
	logger       *slog.Logger
}

// New constructs a Planner from configuration. Unrecognized organize modes
// fall back to the dated layout.
func New(cfg *config.Config, logger *slog.Logger) *Planner {
	mode := strings.ToLower(strings.TrimSpace(cfg.Organize.Mode))
	if mode != config.OrganizeModeFlat && mode != config.OrganizeModeDated {
		mode = config.OrganizeModeDated
	}
	return &Planner{
		mode:         mode,
		includeOther: cfg.Organize.IncludeOther,
		logger:       logging.NewComponentLogger(logger, "planner"),
	}
}

// Mode reports the organize layout in effect.
func (p *Planner) Mode() string { return p.mode }

// Organize maps records under root into category folders. Flat mode targets
// <root>/<Category>/<name>; dated mode targets
// <root>/Organized/<Category>/<year>/<month>/<name> keyed by the record's
// modification time. Other/Unknown records stay in place unless the planner
// was configured to include them. A record already at its computed
// destination produces no entry.
func (p *Planner) Organize(root string, records []catalog.Record) Plan {
	var plan Plan
	resolver := newDestinationResolver()
	skipped := 0

	for _, record := range records {
		if !record.Category.Organizable() && !p.includeOther {
			skipped++
			continue
		}

		dir := p.destinationDir(root, record)
		if filepath.Join(dir, record.Name) == record.Path {
			skipped++
			continue
		}

		plan.Entries = append(plan.Entries, Entry{
			Kind:        EntryMove,
			Source:      record.Path,
			Destination: resolver.Resolve(dir, record.Name),
			Size:        record.Size,
			Category:    record.Category,
		})
	}

	p.logger.Debug(
		"organization plan built",
		logging.String(logging.FieldRoot, root),
		logging.String("mode", p.mode),
		logging.Int("entries", len(plan.Entries)),
		logging.Int("skipped", skipped),
	)
	return plan
}

func (p *Planner) destinationDir(root string, record catalog.Record) string {
	folder := record.Category.FolderName()
	if p.mode == config.OrganizeModeFlat {
		return filepath.Join(root, folder)
	}
	modified := record.ModifiedTime
	month := fmt.Sprintf("%02d-%s", int(modified.Month()), modified.Month().String())
	return filepath.Join(root, organizedDirName, folder, fmt.Sprintf("%d", modified.Year()), month)
}
