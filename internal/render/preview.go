// Package render draws read-only session snapshots. It is the stand-in
// for the external rendering collaborator: it never touches live
// simulation state, only published snapshots.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"

	"github.com/gunhaa/vercel-dodge-bullet/internal/game"
)

// Preview renders snapshots to PNG frames.
type Preview struct {
	mu     sync.Mutex // gg.Context is not safe for concurrent use
	dc     *gg.Context
	width  int
	height int
}

// NewPreview creates a renderer for the given arena dimensions.
func NewPreview(width, height int) *Preview {
	return &Preview{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
	}
}

// RenderPNG draws the snapshot and encodes it as PNG.
func (p *Preview) RenderPNG(snap *game.SessionSnapshot) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dc := p.dc
	p.drawBackground(dc)

	if snap == nil || !snap.Active {
		dc.SetColor(color.RGBA{200, 200, 210, 255})
		dc.DrawStringAnchored("no active session", float64(p.width)/2, float64(p.height)/2, 0.5, 0.5)
		return encode(dc)
	}

	p.drawItems(dc, snap.Items)
	if snap.HasGem {
		p.drawGem(dc, snap.Gem)
	}
	p.drawProjectiles(dc, snap.Projectiles)
	p.drawPlayer(dc, snap.Player)
	p.drawTexts(dc, snap.Texts)
	p.drawHUD(dc, snap)

	return encode(dc)
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Preview) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{12, 12, 28, 255})
	dc.DrawRectangle(0, 0, float64(p.width), float64(p.height))
	dc.Fill()

	// Sparse grid keeps motion readable without per-frame cost.
	dc.SetColor(color.RGBA{30, 30, 45, 255})
	dc.SetLineWidth(1)
	for x := 0.0; x < float64(p.width); x += 80 {
		dc.DrawLine(x, 0, x, float64(p.height))
		dc.Stroke()
	}
	for y := 0.0; y < float64(p.height); y += 80 {
		dc.DrawLine(0, y, float64(p.width), y)
		dc.Stroke()
	}
}

func (p *Preview) drawProjectiles(dc *gg.Context, projectiles []game.ProjectileSnapshot) {
	r := game.ProjectileSize / 2
	for _, b := range projectiles {
		switch {
		case b.Homing:
			dc.SetColor(color.RGBA{255, 160, 40, 255})
		case b.Splitter:
			dc.SetColor(color.RGBA{190, 90, 255, 255})
		default:
			dc.SetColor(color.RGBA{255, 62, 62, 255})
		}
		dc.DrawCircle(b.X, b.Y, r)
		dc.Fill()
	}
}

func (p *Preview) drawItems(dc *gg.Context, items []game.ItemSnapshot) {
	half := game.ItemSize / 2
	for _, it := range items {
		switch it.Kind {
		case "shield":
			dc.SetColor(color.RGBA{80, 180, 255, 255})
		case "clear":
			dc.SetColor(color.RGBA{255, 230, 90, 255})
		default: // dud
			dc.SetColor(color.RGBA{110, 110, 120, 255})
		}
		dc.DrawRectangle(it.X-half, it.Y-half, game.ItemSize, game.ItemSize)
		dc.Fill()
	}
}

func (p *Preview) drawGem(dc *gg.Context, gem game.GemSnapshot) {
	dc.SetColor(color.RGBA{60, 220, 130, 255})
	dc.DrawCircle(gem.X, gem.Y, game.GemSize/2)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(gem.Label, gem.X, gem.Y-game.GemSize, 0.5, 0.5)
}

func (p *Preview) drawPlayer(dc *gg.Context, pl game.PlayerSnapshot) {
	r := game.PlayerSize / 2

	if pl.Invincible {
		dc.SetColor(color.RGBA{255, 255, 255, 77})
		dc.DrawCircle(pl.X, pl.Y, r+8)
		dc.Fill()
	}

	if pl.Alive {
		dc.SetColor(color.RGBA{78, 205, 196, 255})
	} else {
		dc.SetColor(color.RGBA{120, 60, 60, 255})
	}
	dc.DrawCircle(pl.X, pl.Y, r)
	dc.Fill()
}

func (p *Preview) drawTexts(dc *gg.Context, texts []game.TextSnapshot) {
	dc.SetColor(color.RGBA{255, 235, 120, 255})
	for _, t := range texts {
		dc.DrawStringAnchored(t.Text, t.X, t.Y, 0.5, 0.5)
	}
}

func (p *Preview) drawHUD(dc *gg.Context, snap *game.SessionSnapshot) {
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("stage %d", snap.Stage), 10, 20)
	dc.DrawString(fmt.Sprintf("score %.0f", snap.DisplayScore), 10, 40)

	switch snap.Status {
	case "stageClear":
		dc.SetColor(color.RGBA{120, 255, 160, 255})
		dc.DrawStringAnchored("STAGE CLEAR", float64(p.width)/2, float64(p.height)/2, 0.5, 0.5)
	case "gameOver":
		dc.SetColor(color.RGBA{255, 100, 100, 255})
		dc.DrawStringAnchored(fmt.Sprintf("GAME OVER  %d", snap.FinalScore),
			float64(p.width)/2, float64(p.height)/2, 0.5, 0.5)
	}

	if snap.Paused {
		dc.SetColor(color.RGBA{200, 200, 210, 255})
		dc.DrawStringAnchored("PAUSED", float64(p.width)/2, 30, 0.5, 0.5)
	}
}
