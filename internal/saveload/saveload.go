// Package saveload persists the simulation to a single JSON document and
// restores it with every entity reference remapped to fresh handles.
package saveload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const formatVersion = 1

var (
	// ErrNoSave is returned when there is no save file to load.
	ErrNoSave = errors.New("saveload: no saved game")
	// ErrCorruptSave is returned when a save cannot be decoded or is missing
	// the map or the player.
	ErrCorruptSave = errors.New("saveload: corrupt saved game")
)

// document is the on-disk layout: one table per component type, each row
// keyed by the owning entity's stable id.
type document struct {
	Version int              `json:"version"`
	Tables  map[string][]row `json:"tables"`
}

type row struct {
	ID    ulid.ULID       `json:"id"`
	Value json.RawMessage `json:"value"`
}

// Save writes every entity carrying a SaveMarker to out, together with a
// copy of m. The copy travels on a helper entity that is queued for
// destruction before Save returns; the caller's next Maintain removes it.
func Save(w *ecs.World, m *gamemap.Map, out io.Writer, logger *zap.Logger) error {
	helper := w.CreateEntity()
	w.Add(helper, component.SerializationHelper{Map: m.Clone()})
	w.Add(helper, component.NewSaveMarker())
	defer w.DestroyEntity(helper)

	ids := make(map[ecs.Entity]ulid.ULID)
	for _, id := range w.Query(component.CSaveMarker) {
		ids[id] = w.Get(id, component.CSaveMarker).(component.SaveMarker).ID
	}
	ref := func(e ecs.Entity) (ulid.ULID, bool) {
		if !w.Alive(e) {
			return ulid.ULID{}, false
		}
		id, ok := ids[e]
		return id, ok
	}
	// An item whose holder is not saved would load with no placement at all.
	for _, id := range w.Query(component.CInBackpack, component.CSaveMarker) {
		owner := w.Get(id, component.CInBackpack).(component.InBackpack).Owner
		if _, ok := ref(owner); !ok {
			logger.Warn("skipping item held by unsaved owner", zap.Stringer("entity", id))
			delete(ids, id)
		}
	}

	doc := document{Version: formatVersion, Tables: make(map[string][]row, len(codecs))}
	for _, c := range codecs {
		for _, id := range w.Query(c.ctype, component.CSaveMarker) {
			if _, ok := ids[id]; !ok {
				continue
			}
			v, err := c.encode(w.Get(id, c.ctype), ref)
			if errors.Is(err, errDangling) {
				logger.Warn("skipping component with unsaved reference",
					zap.String("table", c.name),
					zap.Stringer("entity", id),
				)
				continue
			}
			if err != nil {
				return fmt.Errorf("encode %s: %w", c.name, err)
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", c.name, err)
			}
			doc.Tables[c.name] = append(doc.Tables[c.name], row{ID: ids[id], Value: raw})
		}
	}

	enc := json.NewEncoder(out)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	logger.Info("game saved", zap.Int("entities", len(ids)))
	return nil
}

// Load replaces the contents of w with the saved world read from in. It
// returns the restored map and the player entity.
//
// Every stable id gets a fresh handle first, then each table is decoded with
// its references rewritten through the id-to-handle map. A reference to an
// id that is not in the save drops that component with a warning.
func Load(w *ecs.World, in io.Reader, logger *zap.Logger) (*gamemap.Map, ecs.Entity, error) {
	var doc document
	if err := json.NewDecoder(in).Decode(&doc); err != nil {
		return nil, ecs.NilEntity, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if doc.Version != formatVersion {
		return nil, ecs.NilEntity, fmt.Errorf("%w: version %d", ErrCorruptSave, doc.Version)
	}

	w.Clear()

	// Pass 1: one fresh entity per stable id, in id order.
	var ids []ulid.ULID
	seen := make(map[ulid.ULID]bool)
	for _, rows := range doc.Tables {
		for _, r := range rows {
			if !seen[r.ID] {
				seen[r.ID] = true
				ids = append(ids, r.ID)
			}
		}
	}
	slices.SortFunc(ids, func(a, b ulid.ULID) int { return a.Compare(b) })
	handles := make(map[ulid.ULID]ecs.Entity, len(ids))
	for _, id := range ids {
		e := w.CreateEntity()
		w.Add(e, component.SaveMarker{ID: id})
		handles[id] = e
	}
	resolve := func(id ulid.ULID) (ecs.Entity, bool) {
		e, ok := handles[id]
		return e, ok
	}

	// Pass 2: decode tables in a fixed order.
	byName := make(map[string]codec, len(codecs))
	for _, c := range codecs {
		byName[c.name] = c
	}
	names := make([]string, 0, len(doc.Tables))
	for name := range doc.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			logger.Warn("ignoring unknown table", zap.String("table", name))
			continue
		}
		for _, r := range doc.Tables[name] {
			comp, err := c.decode(r.Value, resolve)
			if errors.Is(err, errDangling) {
				logger.Warn("dropping reference to unknown entity",
					zap.String("table", name),
					zap.Stringer("id", r.ID),
				)
				continue
			}
			if err != nil {
				w.Clear()
				return nil, ecs.NilEntity, fmt.Errorf("%w: table %s: %v", ErrCorruptSave, name, err)
			}
			w.Add(handles[r.ID], comp)
		}
	}

	helpers := w.Query(component.CSerializationHelper)
	if len(helpers) == 0 {
		w.Clear()
		return nil, ecs.NilEntity, fmt.Errorf("%w: no map", ErrCorruptSave)
	}
	m := w.Get(helpers[0], component.CSerializationHelper).(component.SerializationHelper).Map
	if m == nil || len(m.Tiles) != m.Width*m.Height {
		w.Clear()
		return nil, ecs.NilEntity, fmt.Errorf("%w: bad map", ErrCorruptSave)
	}
	m.ResetIndex()
	for _, h := range helpers {
		w.DestroyEntity(h)
	}
	w.Maintain()

	players := w.Query(component.CPlayer)
	if len(players) != 1 {
		w.Clear()
		return nil, ecs.NilEntity, fmt.Errorf("%w: %d players", ErrCorruptSave, len(players))
	}
	logger.Info("game loaded", zap.Int("entities", w.Live()))
	return m, players[0], nil
}

// SaveFile writes the save to path. The write is not atomic: a crash
// mid-write leaves a truncated file.
func SaveFile(path string, w *ecs.World, m *gamemap.Map, logger *zap.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create save: %w", err)
	}
	if err := Save(w, m, f, logger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads the save at path. A missing file yields ErrNoSave.
func LoadFile(path string, w *ecs.World, logger *zap.Logger) (*gamemap.Map, ecs.Entity, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ecs.NilEntity, ErrNoSave
	}
	if err != nil {
		return nil, ecs.NilEntity, fmt.Errorf("open save: %w", err)
	}
	defer f.Close()
	return Load(w, f, logger)
}

// Exists reports whether a save file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
