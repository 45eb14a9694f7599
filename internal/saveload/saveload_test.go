package saveload

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	w      *ecs.World
	m      *gamemap.Map
	player ecs.Entity
	orc    ecs.Entity
	potion ecs.Entity
}

func newFixture() fixture {
	w := ecs.NewWorld()
	m := gamemap.New(10, 8)
	for x := 1; x < 9; x++ {
		m.Set(x, 3, gamemap.TileFloor)
	}
	m.Revealed[m.XYIdx(2, 3)] = true
	m.PopulateBlocked()

	player := w.CreateEntity()
	w.Add(player, component.Player{})
	w.Add(player, component.Name{Name: "Player"})
	w.Add(player, component.Position{X: 2, Y: 3})
	w.Add(player, component.CombatStats{MaxHP: 30, HP: 25, Defense: 2, Power: 5})
	w.Add(player, component.NewViewshed(8))
	w.Add(player, component.NewSaveMarker())

	orc := w.CreateEntity()
	w.Add(orc, component.Monster{})
	w.Add(orc, component.Name{Name: "Orc"})
	w.Add(orc, component.Position{X: 3, Y: 3})
	w.Add(orc, component.BlocksTile{})
	w.Add(orc, component.CombatStats{MaxHP: 16, HP: 9, Defense: 1, Power: 4})
	w.Add(orc, component.NewSaveMarker())

	potion := w.CreateEntity()
	w.Add(potion, component.Item{})
	w.Add(potion, component.Consumable{})
	w.Add(potion, component.Name{Name: "Health Potion"})
	w.Add(potion, component.ProvidesHealing{Amount: 8})
	w.Add(potion, component.InBackpack{Owner: orc})
	w.Add(potion, component.NewSaveMarker())

	w.Add(player, component.WantsToMelee{Target: orc})
	return fixture{w: w, m: m, player: player, orc: orc, potion: potion}
}

func TestRoundTripRemapsReferences(t *testing.T) {
	f := newFixture()
	var buf bytes.Buffer
	if err := Save(f.w, f.m, &buf, zap.NewNop()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	wantStats := f.w.Get(f.orc, component.CCombatStats).(component.CombatStats)

	w := ecs.NewWorld()
	m, player, err := Load(w, &buf, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !w.Has(player, component.CPlayer) {
		t.Fatal("returned player lacks the Player tag")
	}

	var item ecs.Entity
	for _, id := range w.Query(component.CInBackpack) {
		item = id
	}
	if item == ecs.NilEntity {
		t.Fatal("backpack item missing after load")
	}
	owner := w.Get(item, component.CInBackpack).(component.InBackpack).Owner
	if !w.Alive(owner) {
		t.Fatal("backpack owner does not resolve")
	}
	if n := w.Get(owner, component.CName).(component.Name).Name; n != "Orc" {
		t.Fatalf("owner name = %q, want Orc", n)
	}
	if got := w.Get(owner, component.CCombatStats).(component.CombatStats); got != wantStats {
		t.Fatalf("owner stats = %+v, want %+v", got, wantStats)
	}

	melee := w.Get(player, component.CWantsToMelee).(component.WantsToMelee)
	if melee.Target != owner {
		t.Fatalf("melee target %v should be the restored orc %v", melee.Target, owner)
	}

	if m.Width != 10 || m.Height != 8 || m.At(4, 3) != gamemap.TileFloor {
		t.Fatal("map tiles not restored")
	}
	if !m.Revealed[m.XYIdx(2, 3)] {
		t.Fatal("revealed bitmap not restored")
	}
	if len(m.TileContent) != 80 {
		t.Fatal("spatial index should be reallocated")
	}
	if w.Count(component.CSerializationHelper) != 0 {
		t.Fatal("helper entity must not survive a load")
	}
}

func TestSaveQueuesHelperForDestruction(t *testing.T) {
	f := newFixture()
	before := f.w.Live()
	if err := Save(f.w, f.m, &bytes.Buffer{}, zap.NewNop()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	helpers := f.w.Query(component.CSerializationHelper)
	if len(helpers) != 1 || !f.w.PendingDestroy(helpers[0]) {
		t.Fatal("helper should exist but be queued for destruction")
	}
	f.w.Maintain()
	if f.w.Live() != before {
		t.Fatalf("helper leaked: %d live, want %d", f.w.Live(), before)
	}
}

func TestViewshedSurvives(t *testing.T) {
	f := newFixture()
	vs := f.w.Get(f.player, component.CViewshed).(component.Viewshed)
	vs.Visible.Put(gamemap.Point{X: 3, Y: 3})
	vs.Dirty = false
	f.w.Add(f.player, vs)

	var buf bytes.Buffer
	if err := Save(f.w, f.m, &buf, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	_, player, err := Load(w, &buf, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	got := w.Get(player, component.CViewshed).(component.Viewshed)
	if got.Range != 8 || got.Dirty || !got.Sees(gamemap.Point{X: 3, Y: 3}) {
		t.Fatalf("viewshed not restored: %+v", got)
	}
}

func TestUnknownIDDropsReferenceWithWarning(t *testing.T) {
	f := newFixture()
	var buf bytes.Buffer
	if err := Save(f.w, f.m, &buf, zap.NewNop()); err != nil {
		t.Fatal(err)
	}

	// Point the melee intent at an id that is not in the save.
	var doc document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	ghost, _ := json.Marshal(meleeDTO{Target: ulid.Make()})
	doc.Tables["wants_to_melee"][0].Value = ghost
	edited, _ := json.Marshal(doc)

	core, logs := observer.New(zapcore.WarnLevel)
	w := ecs.NewWorld()
	_, player, err := Load(w, bytes.NewReader(edited), zap.New(core))
	if err != nil {
		t.Fatalf("a dangling reference must not fail the load: %v", err)
	}
	if w.Has(player, component.CWantsToMelee) {
		t.Fatal("dangling intent should be dropped")
	}
	if logs.FilterMessage("dropping reference to unknown entity").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"garbage", "not json"},
		{"wrong version", `{"version": 99, "tables": {}}`},
		{"no map", `{"version": 1, "tables": {}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Load(ecs.NewWorld(), strings.NewReader(c.input), zap.NewNop())
			if !errors.Is(err, ErrCorruptSave) {
				t.Fatalf("expected ErrCorruptSave, got %v", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.json")
	if Exists(path) {
		t.Fatal("file should not exist")
	}
	_, _, err := LoadFile(path, ecs.NewWorld(), zap.NewNop())
	if !errors.Is(err, ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
}

func TestSaveFileLoadFile(t *testing.T) {
	f := newFixture()
	path := filepath.Join(t.TempDir(), "save.json")
	if err := SaveFile(path, f.w, f.m, zap.NewNop()); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if !Exists(path) {
		t.Fatal("save file should exist")
	}
	w := ecs.NewWorld()
	_, player, err := LoadFile(path, w, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if hp := w.Get(player, component.CCombatStats).(component.CombatStats).HP; hp != 25 {
		t.Fatalf("player hp = %d, want 25", hp)
	}
	if w.Count(component.CSaveMarker) != 3 {
		t.Fatalf("expected 3 marked entities, got %d", w.Count(component.CSaveMarker))
	}
}

func TestUnmarkedEntitiesAreNotSaved(t *testing.T) {
	f := newFixture()
	stray := f.w.CreateEntity()
	f.w.Add(stray, component.Name{Name: "Stray"})

	var buf bytes.Buffer
	if err := Save(f.w, f.m, &buf, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	if _, _, err := Load(w, &buf, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	for _, id := range w.Query(component.CName) {
		if w.Get(id, component.CName).(component.Name).Name == "Stray" {
			t.Fatal("entity without a save marker was persisted")
		}
	}
}

func TestItemOfUnsavedOwnerIsSkipped(t *testing.T) {
	f := newFixture()
	f.w.Remove(f.orc, component.CSaveMarker)

	core, logs := observer.New(zapcore.WarnLevel)
	var buf bytes.Buffer
	if err := Save(f.w, f.m, &buf, zap.New(core)); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("skipping item held by unsaved owner").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}

	w := ecs.NewWorld()
	if _, _, err := Load(w, &buf, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if n := w.Count(component.CItem); n != 0 {
		t.Fatalf("orphaned item was persisted: %d items loaded", n)
	}
}
