package component

import (
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"github.com/oklog/ulid/v2"
)

const (
	CSaveMarker          ecs.ComponentType = 21
	CSerializationHelper ecs.ComponentType = 22
)

// SaveMarker flags an entity for persistence and gives it an id that
// survives a process restart.
type SaveMarker struct {
	ID ulid.ULID
}

func (SaveMarker) Type() ecs.ComponentType { return CSaveMarker }

// NewSaveMarker returns a marker with a fresh id.
func NewSaveMarker() SaveMarker { return SaveMarker{ID: ulid.Make()} }

// SerializationHelper carries a copy of the map through a save file. It
// only exists while a save or load is in progress.
type SerializationHelper struct {
	Map *gamemap.Map
}

func (SerializationHelper) Type() ecs.ComponentType { return CSerializationHelper }
