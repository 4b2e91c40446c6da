package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/CakeCut/internal/model"
)

// edgeEps decides whether two knife positions share a cake edge. Positions
// arrive rounded to hundredths, so this only absorbs float noise.
const edgeEps = 1e-6

// Generator produces GCode that drives a knife along a played cut path.
type Generator struct {
	Settings model.KnifeSettings
	profile  model.GCodeProfile
}

func New(settings model.KnifeSettings) *Generator {
	return NewWithProfile(settings, model.GetProfile(settings.GCodeProfile))
}

// NewWithProfile uses profile instead of looking up settings.GCodeProfile
// among the built-in profiles.
func NewWithProfile(settings model.KnifeSettings, profile model.GCodeProfile) *Generator {
	if settings.Scale <= 0 {
		settings.Scale = model.DefaultPlayerConfig().Knife.Scale
	}
	return &Generator{
		Settings: settings,
		profile:  profile,
	}
}

// Generate produces the GCode for the init and cut moves of a game. Moves
// that run along a cake edge are sneaks: they either lift and rapid over the
// cake or drag along the edge at travel rate, depending on LiftOnSneak.
func (g *Generator) Generate(game model.Game, moves []model.Move) string {
	var b strings.Builder

	path := knifePath(moves)
	g.writeHeader(&b, game, len(path))

	if len(path) > 0 {
		start := path[0]
		b.WriteString(g.comment(fmt.Sprintf("Init at %.2f, %.2f", start.X, start.Y)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.coord(start.X), g.coord(start.Y)))
		g.writePlunge(&b)

		prev := start
		for i, p := range path[1:] {
			if onSameEdge(game.Surface, prev, p) {
				g.writeSneak(&b, p, i+1)
			} else {
				g.writeCut(&b, p, i+1)
			}
			prev = p
		}
	}

	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, game model.Game, positions int) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("CakeCut GCode - Game %s, behavior %s", game.ID, game.Behavior)))
	b.WriteString(g.comment(fmt.Sprintf("Cake: %.2f x %.2f cm, scale %.1f units/cm", game.Surface.Width, game.Surface.Length, g.Settings.Scale)))
	b.WriteString(g.comment(fmt.Sprintf("Requests: %d, Knife positions: %d", len(game.Requests), positions)))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f, Travel: %.0f, Plunge: %.0f", g.Settings.FeedRate, g.Settings.TravelRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1f, Profile: %s", g.Settings.CutDepth, p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.KnifeStart != "" {
		b.WriteString(p.KnifeStart + "\n")
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}

	if p.KnifeStop != "" {
		b.WriteString(p.KnifeStop + "\n")
	}
}

func (g *Generator) writePlunge(b *strings.Builder) {
	b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove, g.format(-g.Settings.CutDepth), g.format(g.Settings.PlungeRate)))
}

func (g *Generator) writeCut(b *strings.Builder, to model.Point, n int) {
	b.WriteString(g.comment(fmt.Sprintf("Cut %d to %.2f, %.2f", n, to.X, to.Y)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
		g.coord(to.X), g.coord(to.Y), g.format(g.Settings.FeedRate)))
}

func (g *Generator) writeSneak(b *strings.Builder, to model.Point, n int) {
	b.WriteString(g.comment(fmt.Sprintf("Sneak %d to %.2f, %.2f", n, to.X, to.Y)))
	if !g.Settings.LiftOnSneak {
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
			g.coord(to.X), g.coord(to.Y), g.format(g.Settings.TravelRate)))
		return
	}
	b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.coord(to.X), g.coord(to.Y)))
	g.writePlunge(b)
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// coord formats a cake coordinate in machine units.
func (g *Generator) coord(v float64) string {
	return g.format(v * g.Settings.Scale)
}

// format formats a value according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}

// knifePath returns the init position followed by every cut position.
func knifePath(moves []model.Move) []model.Point {
	var path []model.Point
	for _, mv := range moves {
		if mv.Kind == model.MoveInit || mv.Kind == model.MoveCut {
			path = append(path, mv.Position)
		}
	}
	return path
}

// onSameEdge reports whether a and b lie on one common edge of the cake.
func onSameEdge(s model.Surface, a, b model.Point) bool {
	near := func(v, target float64) bool { return math.Abs(v-target) <= edgeEps }
	return (near(a.X, 0) && near(b.X, 0)) ||
		(near(a.X, s.Width) && near(b.X, s.Width)) ||
		(near(a.Y, 0) && near(b.Y, 0)) ||
		(near(a.Y, s.Length) && near(b.Y, s.Length))
}
