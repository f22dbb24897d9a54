package playing

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/application/state"
	"github.com/younwookim/starroll/internal/domain/entity"
	"golang.org/x/image/colornames"
)

// Colors for rendering
var (
	colorWall      = colornames.Slategray
	colorSlope     = colornames.Lightsteelblue
	colorBounce    = colornames.Orange
	colorPickup    = colornames.Gold
	colorDoor      = colornames.Sienna
	colorCharacter = colornames.Mediumseagreen
	colorRolling   = colornames.Orchid
	colorNormal    = colornames.Crimson
	colorOverlay   = color.RGBA{0, 0, 0, 128}
	colorClear     = color.RGBA{0, 60, 0, 160}
)

// camera maps world space (y-up, tile units) to screen pixels
type camera struct {
	x, y     float64
	tileSize float64
	height   float64
}

func (c camera) toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X*c.tileSize - c.x), float32((c.height-v.Y)*c.tileSize - c.y)
}

func (p *Playing) camera() camera {
	stage := p.sim.Stage()
	ts := float64(p.tileSize)
	h := float64(stage.Height)
	pos := p.sim.Body().Position()

	cam := camera{tileSize: ts, height: h}
	cam.x = pos.X*ts - float64(p.screenW)/2
	cam.y = (h-pos.Y)*ts - float64(p.screenH)/2

	// Clamp camera to stage bounds
	maxX := float64(stage.Width)*ts - float64(p.screenW)
	maxY := h*ts - float64(p.screenH)
	cam.x = max(0, min(cam.x, maxX))
	cam.y = max(0, min(cam.y, maxY))
	return cam
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(p.bgColor)

	cam := p.camera()
	p.drawShapes(screen, cam)
	p.drawVolumes(screen, cam)
	p.drawCharacter(screen, cam)
	p.drawUI(screen)

	// Draw state overlays
	switch p.sim.Session().State() {
	case state.StatePaused:
		p.drawOverlay(screen, colorOverlay, "PAUSED\n\nPress ESC to resume")
	case state.StateStageClear:
		p.drawOverlay(screen, colorClear, "STAGE CLEAR\n\nPress R to restart")
	}
}

func (p *Playing) drawShapes(screen *ebiten.Image, cam camera) {
	for _, shape := range p.sim.World().Shapes() {
		if len(shape.Verts) < 3 {
			continue
		}
		var c color.Color
		switch shape.Kind {
		case entity.TileBounce:
			c = colorBounce
		case entity.TileSlopeUp, entity.TileSlopeDown:
			c = colorSlope
		default:
			c = colorWall
		}

		if len(shape.Verts) == 4 {
			x0, y0 := cam.toScreen(shape.Verts[3]) // top-left
			x1, y1 := cam.toScreen(shape.Verts[1]) // bottom-right
			vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, c, false)
			continue
		}
		for i, v := range shape.Verts {
			next := shape.Verts[(i+1)%len(shape.Verts)]
			x0, y0 := cam.toScreen(v)
			x1, y1 := cam.toScreen(next)
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, c, false)
		}
	}
}

func (p *Playing) drawVolumes(screen *ebiten.Image, cam camera) {
	for _, v := range p.sim.World().Volumes() {
		x0, y0 := cam.toScreen(cp.Vector{X: v.Min.X, Y: v.Max.Y})
		x1, y1 := cam.toScreen(cp.Vector{X: v.Max.X, Y: v.Min.Y})
		switch v.Trigger.Kind {
		case entity.TriggerPickup:
			// Pickups are drawn as a small centered square
			cx, cy := (x0+x1)/2, (y0+y1)/2
			size := float32(p.tileSize) / 2
			vector.DrawFilledRect(screen, cx-size/2, cy-size/2, size, size, colorPickup, false)
		case entity.TriggerDoor:
			vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, colorDoor, false)
		}
	}
}

func (p *Playing) drawCharacter(screen *ebiten.Image, cam camera) {
	body := p.sim.Body()
	pos := body.Position()
	size := body.Size()

	c := colorCharacter
	if body.Shrunk() {
		c = colorRolling
	}
	x0, y0 := cam.toScreen(cp.Vector{X: pos.X - size.X/2, Y: pos.Y + size.Y})
	x1, y1 := cam.toScreen(cp.Vector{X: pos.X + size.X/2, Y: pos.Y})
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, c, false)

	// Facing tick
	fx := x1 - 2
	if p.sim.Controller().Facing() < 0 {
		fx = x0
	}
	vector.DrawFilledRect(screen, fx, y0+2, 2, 4, color.White, false)

	// Ground normal debug
	ch := p.sim.Controller().State()
	if ebiten.IsKeyPressed(ebiten.KeyTab) && ch.Ground.Grounded() {
		tip := pos.Add(ch.Ground.Normal)
		nx, ny := cam.toScreen(tip)
		bx, by := cam.toScreen(pos)
		vector.StrokeLine(screen, bx, by, nx, ny, 1, colorNormal, false)
	}
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	ch := p.sim.Controller().State()
	vel := p.sim.Body().Velocity()

	var b strings.Builder
	fmt.Fprintf(&b, "%s  v=(%.2f, %.2f)", ch.Anim.State, vel.X, vel.Y)
	for _, cat := range p.doorCategories() {
		fmt.Fprintf(&b, "  %s: %d", cat, p.sim.Session().Count(cat))
	}
	ebitenutil.DebugPrint(screen, b.String())

	if hud, ok := p.sim.Session().HUD(); ok {
		text := fmt.Sprintf("Door: %d/%d %s", hud.Have, hud.Need, hud.Door.Category)
		if hud.Open {
			text = "Door open"
		}
		ebitenutil.DebugPrintAt(screen, text, p.screenW/2-40, 20)
	}

	// Controls
	controls := "A/D: Move | W: Jump | Shift: Roll | R: Restart | ESC: Pause"
	ebitenutil.DebugPrintAt(screen, controls, 4, p.screenH-16)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.Color, text string) {
	vector.DrawFilledRect(screen, 0, 0, float32(p.screenW), float32(p.screenH), c, false)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-50, p.screenH/2-20)
}

// doorCategories lists the pickup categories doors on the stage ask for
func (p *Playing) doorCategories() []string {
	var cats []string
	seen := make(map[string]bool)
	for _, v := range p.sim.Stage().Volumes {
		if v.Trigger.Kind != entity.TriggerDoor || seen[v.Trigger.Category] {
			continue
		}
		seen[v.Trigger.Category] = true
		cats = append(cats, v.Trigger.Category)
	}
	return cats
}
