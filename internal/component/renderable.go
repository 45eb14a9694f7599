package component

import (
	"dungeoncrawl/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

const CRenderable ecs.ComponentType = 2

// Renderable is presentation only. Higher RenderOrder draws on top.
type Renderable struct {
	Glyph       string
	FGColor     tcell.Color
	BGColor     tcell.Color
	RenderOrder int
}

func (Renderable) Type() ecs.ComponentType { return CRenderable }

const CName ecs.ComponentType = 3

type Name struct {
	Name string
}

func (Name) Type() ecs.ComponentType { return CName }
