// CakeCut - Cake Cutting Planner with knife GCode export
//
// Plays a cake cutting game for a list of requested portion areas and
// exports the result as a PDF report, plate labels, knife GCode, a DXF
// drawing and penalty charts.
//
// Build:
//   go build -o cakecut ./cmd/cakecut
//
// Examples:
//   cakecut -width 40 -length 20 -areas 200,200,200,200 -pdf plan.pdf
//   cakecut -requests guests.xlsx -compare -chart behaviors.html
//   cakecut -template birthday -gcode knife.nc -profile LinuxCNC
//   cakecut -import-profile ultrasonic.json
//   cakecut -assign pieces.dxf -areas 120,80,100 -chart strategies.html

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/export"
	"github.com/piwi3910/CakeCut/internal/gcode"
	"github.com/piwi3910/CakeCut/internal/importer"
	"github.com/piwi3910/CakeCut/internal/logger"
	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/project"
	"github.com/piwi3910/CakeCut/internal/sim"
	"github.com/piwi3910/CakeCut/internal/strategy"
)

func main() {
	logger.Init()
	if err := run(os.Args[1:], os.Stdout, logger.Get()); err != nil {
		l := logger.Get()
		l.Error().Err(err).Msg("cakecut failed")
		os.Exit(1)
	}
}

type options struct {
	width, length float64
	areas         string
	requestsFile  string
	template      string
	saveTemplate  string
	templatesFile string
	behavior      string
	tolerance     float64
	seed          int64
	maxTurns      int
	compare       bool
	assignDXF     string

	configFile   string
	profilesFile  string
	profile       string
	importProfile string
	exportProfile string

	pdfOut     string
	labelsOut  string
	gcodeOut   string
	dxfOut     string
	chartOut   string
	archiveOut string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("cakecut", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Float64Var(&o.width, "width", 0, "cake width in cm")
	fs.Float64Var(&o.length, "length", 0, "cake length in cm")
	fs.StringVar(&o.areas, "areas", "", "comma separated requested areas in cm2")
	fs.StringVar(&o.requestsFile, "requests", "", "CSV or Excel file with requested areas")
	fs.StringVar(&o.template, "template", "", "play a saved party template")
	fs.StringVar(&o.saveTemplate, "save-template", "", "save this game setup as a party template")
	fs.StringVar(&o.templatesFile, "templates", project.DefaultTemplatePath(), "party templates file")
	fs.StringVar(&o.behavior, "behavior", "", "cutting behavior: "+strings.Join(strategy.BehaviorNames(), ", "))
	fs.Float64Var(&o.tolerance, "tolerance", -1, "penalty-free deviation in percent")
	fs.Int64Var(&o.seed, "seed", 0, "random seed for the genetic assigner")
	fs.IntVar(&o.maxTurns, "max-turns", sim.DefaultMaxTurns, "turn limit per game")
	fs.BoolVar(&o.compare, "compare", false, "play every behavior and keep the cheapest game")
	fs.StringVar(&o.assignDXF, "assign", "", "only assign the pieces drawn in this DXF file")

	fs.StringVar(&o.configFile, "config", project.DefaultConfigPath(), "player config file")
	fs.StringVar(&o.profilesFile, "profiles", project.DefaultProfilesPath(), "custom GCode profiles file")
	fs.StringVar(&o.profile, "profile", "", "GCode profile: "+strings.Join(model.GetProfileNames(), ", ")+" or a custom profile")
	fs.StringVar(&o.importProfile, "import-profile", "", "install a shared GCode profile into the profiles file")
	fs.StringVar(&o.exportProfile, "export-profile", "", "write the selected GCode profile to a file for sharing")

	fs.StringVar(&o.pdfOut, "pdf", "", "write a PDF report")
	fs.StringVar(&o.labelsOut, "labels", "", "write a PDF label sheet")
	fs.StringVar(&o.gcodeOut, "gcode", "", "write knife GCode")
	fs.StringVar(&o.dxfOut, "dxf", "", "write a DXF drawing")
	fs.StringVar(&o.chartOut, "chart", "", "write an HTML penalty chart")
	fs.StringVar(&o.archiveOut, "archive", "", "write the played games to a JSON archive")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// parseAreas parses a comma separated list of positive areas.
func parseAreas(s string) ([]float64, error) {
	var areas []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid area %q", field)
		}
		if v <= 0 {
			return nil, fmt.Errorf("area %q must be positive", field)
		}
		areas = append(areas, v)
	}
	return areas, nil
}

func run(args []string, stdout io.Writer, log zerolog.Logger) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := project.LoadConfig(o.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.behavior != "" {
		cfg.Behavior = o.behavior
	}
	if o.tolerance >= 0 {
		cfg.Tolerance = o.tolerance
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.profile != "" {
		cfg.Knife.GCodeProfile = o.profile
	}
	cfg.Normalize()

	if o.importProfile != "" || o.exportProfile != "" {
		if err := manageProfiles(o, cfg, stdout, log); err != nil {
			return err
		}
		if o.areas == "" && o.requestsFile == "" && o.template == "" {
			return nil
		}
	}

	game, err := setupGame(o, &cfg, log)
	if err != nil {
		return err
	}

	if o.assignDXF != "" {
		return runAssignOnly(o, cfg, game, stdout, log)
	}

	log = log.With().Str("game", game.ID).Logger()
	var records []*sim.Record
	if o.compare {
		records, err = sim.PlayAll(game, cfg, strategy.BehaviorNames(), o.maxTurns, log)
	} else {
		var rec *sim.Record
		rec, err = sim.Play(game, cfg, o.maxTurns, log)
		records = []*sim.Record{rec}
	}
	if err != nil {
		return err
	}

	best := records[0]
	for _, rec := range records[1:] {
		if rec.Penalty < best.Penalty {
			best = rec
		}
	}
	for _, rec := range records {
		fmt.Fprintf(stdout, "%-12s pieces=%-3d cuts=%-3d penalty=%.2f\n",
			rec.Game.Behavior, len(rec.Pieces), len(rec.Path())-1, rec.Penalty)
	}
	if o.compare {
		fmt.Fprintf(stdout, "best: %s\n", best.Game.Behavior)
	}

	comparison := engine.CompareAssigners(
		engine.BuildDefaultScenarios(cfg, len(best.Pieces)),
		best.Pieces, best.Game.Requests, cfg.Tolerance, cfg.PlateRadius)

	return writeOutputs(o, cfg, best, records, comparison, log)
}

// manageProfiles installs and exports GCode profiles. An installed profile
// is exported when it is also the selected one.
func manageProfiles(o options, cfg model.PlayerConfig, stdout io.Writer, log zerolog.Logger) error {
	if o.importProfile != "" {
		p, err := project.InstallProfile(o.profilesFile, o.importProfile)
		if err != nil {
			return fmt.Errorf("importing profile: %w", err)
		}
		fmt.Fprintf(stdout, "installed profile %s\n", p.Name)
		log.Info().Str("profile", p.Name).Str("library", o.profilesFile).Msg("Profile installed")
	}

	if o.exportProfile != "" {
		custom, err := project.LoadCustomProfiles(o.profilesFile)
		if err != nil {
			return fmt.Errorf("loading profiles: %w", err)
		}
		p := project.ResolveProfile(cfg.Knife.GCodeProfile, custom)
		if err := project.ExportProfile(o.exportProfile, p); err != nil {
			return fmt.Errorf("exporting profile: %w", err)
		}
		fmt.Fprintf(stdout, "exported profile %s\n", p.Name)
	}
	return nil
}

// setupGame builds the game from a template, a request file or the -areas
// list, and saves it as a template when asked.
func setupGame(o options, cfg *model.PlayerConfig, log zerolog.Logger) (model.Game, error) {
	surface := model.Surface{Width: o.width, Length: o.length}
	var requests []float64

	if o.template != "" {
		store, err := project.LoadTemplates(o.templatesFile)
		if err != nil {
			return model.Game{}, fmt.Errorf("loading templates: %w", err)
		}
		t := store.Find(o.template)
		if t == nil {
			return model.Game{}, fmt.Errorf("template %q not found", o.template)
		}
		surface = t.Surface
		requests = t.Requests
		if o.tolerance < 0 && t.Tolerance > 0 {
			cfg.Tolerance = t.Tolerance
		}
	}

	if o.requestsFile != "" {
		res := importer.ImportRequests(o.requestsFile)
		for _, w := range res.Warnings {
			log.Warn().Str("file", o.requestsFile).Msg(w)
		}
		if len(res.Errors) > 0 {
			return model.Game{}, fmt.Errorf("importing %s: %s", o.requestsFile, strings.Join(res.Errors, "; "))
		}
		requests = res.Requests
	}

	if o.areas != "" {
		areas, err := parseAreas(o.areas)
		if err != nil {
			return model.Game{}, err
		}
		requests = areas
	}

	if err := surface.Validate(); err != nil {
		return model.Game{}, err
	}
	if len(requests) == 0 {
		return model.Game{}, errors.New("no requests: use -areas, -requests or -template")
	}

	if o.saveTemplate != "" {
		store, err := project.LoadTemplates(o.templatesFile)
		if err != nil {
			return model.Game{}, fmt.Errorf("loading templates: %w", err)
		}
		store.Add(project.NewPartyTemplate(o.saveTemplate, "", surface, requests, cfg.Tolerance))
		if err := project.SaveTemplates(o.templatesFile, store); err != nil {
			return model.Game{}, fmt.Errorf("saving template: %w", err)
		}
		log.Info().Str("template", o.saveTemplate).Msg("Template saved")
	}

	return model.NewGame(surface, requests, cfg.Behavior), nil
}

// runAssignOnly compares the assignment strategies on pieces read from a
// DXF drawing instead of playing a game.
func runAssignOnly(o options, cfg model.PlayerConfig, game model.Game, stdout io.Writer, log zerolog.Logger) error {
	res := importer.ImportDXF(o.assignDXF)
	for _, w := range res.Warnings {
		log.Warn().Str("file", o.assignDXF).Msg(w)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("importing %s: %s", o.assignDXF, strings.Join(res.Errors, "; "))
	}
	if len(res.Pieces) == 0 {
		return fmt.Errorf("no pieces in %s", o.assignDXF)
	}

	results := engine.CompareAssigners(
		engine.BuildDefaultScenarios(cfg, len(res.Pieces)),
		res.Pieces, game.Requests, cfg.Tolerance, cfg.PlateRadius)
	for _, r := range results {
		fmt.Fprintf(stdout, "%-16s assigned=%-3d infeasible=%-3d penalty=%.2f\n",
			r.Scenario.Name, r.AssignedCount, r.InfeasibleCount, r.Penalty)
	}
	if best, ok := engine.Cheapest(results); ok {
		fmt.Fprintf(stdout, "best: %s %v\n", best.Scenario.Name, best.Assignment)
	}

	if o.chartOut != "" {
		if err := export.ExportComparisonChart(o.chartOut, results); err != nil {
			return err
		}
	}
	return nil
}

func writeOutputs(o options, cfg model.PlayerConfig, best *sim.Record, records []*sim.Record, comparison []engine.ComparisonResult, log zerolog.Logger) error {
	if o.pdfOut != "" {
		if err := export.ExportPDF(o.pdfOut, best, cfg, comparison); err != nil {
			return fmt.Errorf("writing PDF: %w", err)
		}
		log.Info().Str("path", o.pdfOut).Msg("PDF report written")
	}

	if o.labelsOut != "" {
		if err := export.ExportLabels(o.labelsOut, best, cfg.PlateRadius); err != nil {
			return fmt.Errorf("writing labels: %w", err)
		}
		log.Info().Str("path", o.labelsOut).Msg("Labels written")
	}

	if o.gcodeOut != "" {
		if err := writeGCode(o, cfg, best, log); err != nil {
			return err
		}
	}

	if o.dxfOut != "" {
		if err := export.ExportDXF(o.dxfOut, best); err != nil {
			return fmt.Errorf("writing DXF: %w", err)
		}
		log.Info().Str("path", o.dxfOut).Msg("DXF written")
	}

	if o.chartOut != "" {
		var err error
		if len(records) > 1 {
			err = export.ExportBehaviorChart(o.chartOut, records)
		} else {
			err = export.ExportComparisonChart(o.chartOut, comparison)
		}
		if err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		log.Info().Str("path", o.chartOut).Msg("Chart written")
	}

	if o.archiveOut != "" {
		if err := project.ExportGames(o.archiveOut, cfg, records); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
		log.Info().Str("path", o.archiveOut).Int("games", len(records)).Msg("Archive written")
	}
	return nil
}

// writeGCode generates knife GCode for rec and checks the parsed toolpath
// for unsafe moves before writing it.
func writeGCode(o options, cfg model.PlayerConfig, rec *sim.Record, log zerolog.Logger) error {
	custom, err := project.LoadCustomProfiles(o.profilesFile)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}
	profile := project.ResolveProfile(cfg.Knife.GCodeProfile, custom)

	gen := gcode.NewWithProfile(cfg.Knife, profile)
	code := gen.Generate(rec.Game, rec.Moves)

	collisions := gcode.CheckKnifeCollisions(gcode.ParseGCode(code), rec.Game.Surface, gen.Settings.Scale)
	for _, w := range gcode.FormatCollisionWarnings(collisions) {
		log.Warn().Str("profile", profile.Name).Msg(w)
	}

	if err := os.WriteFile(o.gcodeOut, []byte(code), 0644); err != nil {
		return fmt.Errorf("writing GCode: %w", err)
	}
	log.Info().Str("path", o.gcodeOut).Str("profile", profile.Name).Msg("GCode written")
	return nil
}
