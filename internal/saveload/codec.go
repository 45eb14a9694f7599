package saveload

import (
	"encoding/json"
	"errors"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"github.com/oklog/ulid/v2"
	"github.com/zyedidia/generic/mapset"
)

// errDangling marks a component whose entity reference cannot be mapped.
// The component is dropped, not the whole save.
var errDangling = errors.New("dangling entity reference")

// refFunc maps a live handle to its stable id while saving.
type refFunc func(ecs.Entity) (ulid.ULID, bool)

// resolveFunc maps a stable id to its fresh handle while loading.
type resolveFunc func(ulid.ULID) (ecs.Entity, bool)

// codec persists one component type as its own table.
type codec struct {
	name   string
	ctype  ecs.ComponentType
	encode func(c ecs.Component, ref refFunc) (any, error)
	decode func(raw json.RawMessage, resolve resolveFunc) (ecs.Component, error)
}

// plain builds a codec for components that hold no entity references.
func plain[T ecs.Component](name string) codec {
	var zero T
	return codec{
		name:  name,
		ctype: zero.Type(),
		encode: func(c ecs.Component, _ refFunc) (any, error) {
			return c, nil
		},
		decode: func(raw json.RawMessage, _ resolveFunc) (ecs.Component, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// codecs lists every persisted component type in table order.
var codecs = []codec{
	plain[component.Position]("position"),
	plain[component.Renderable]("renderable"),
	plain[component.Player]("player"),
	viewshedCodec,
	plain[component.Monster]("monster"),
	plain[component.Name]("name"),
	plain[component.BlocksTile]("blocks_tile"),
	plain[component.CombatStats]("combat_stats"),
	plain[component.SufferDamage]("suffer_damage"),
	plain[component.MovementSpeed]("movement_speed"),
	meleeCodec,
	plain[component.Item]("item"),
	plain[component.Consumable]("consumable"),
	plain[component.Ranged]("ranged"),
	plain[component.InflictsDamage]("inflicts_damage"),
	plain[component.ProvidesHealing]("provides_healing"),
	backpackCodec,
	pickupCodec,
	useCodec,
	dropCodec,
	plain[component.SerializationHelper]("serialization_helper"),
}

type viewshedDTO struct {
	Visible []gamemap.Point `json:"visible"`
	Range   int             `json:"range"`
	Dirty   bool            `json:"dirty"`
}

var viewshedCodec = codec{
	name:  "viewshed",
	ctype: component.CViewshed,
	encode: func(c ecs.Component, _ refFunc) (any, error) {
		vs := c.(component.Viewshed)
		dto := viewshedDTO{Range: vs.Range, Dirty: vs.Dirty, Visible: []gamemap.Point{}}
		if vs.Visible.Size() > 0 {
			vs.Visible.Each(func(p gamemap.Point) { dto.Visible = append(dto.Visible, p) })
		}
		return dto, nil
	},
	decode: func(raw json.RawMessage, _ resolveFunc) (ecs.Component, error) {
		var dto viewshedDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		vs := component.Viewshed{Visible: mapset.New[gamemap.Point](), Range: dto.Range, Dirty: dto.Dirty}
		for _, p := range dto.Visible {
			vs.Visible.Put(p)
		}
		return vs, nil
	},
}

type meleeDTO struct {
	Target ulid.ULID `json:"target"`
}

var meleeCodec = codec{
	name:  "wants_to_melee",
	ctype: component.CWantsToMelee,
	encode: func(c ecs.Component, ref refFunc) (any, error) {
		id, ok := ref(c.(component.WantsToMelee).Target)
		if !ok {
			return nil, errDangling
		}
		return meleeDTO{Target: id}, nil
	},
	decode: func(raw json.RawMessage, resolve resolveFunc) (ecs.Component, error) {
		var dto meleeDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		target, ok := resolve(dto.Target)
		if !ok {
			return nil, errDangling
		}
		return component.WantsToMelee{Target: target}, nil
	},
}

type backpackDTO struct {
	Owner ulid.ULID `json:"owner"`
}

var backpackCodec = codec{
	name:  "in_backpack",
	ctype: component.CInBackpack,
	encode: func(c ecs.Component, ref refFunc) (any, error) {
		id, ok := ref(c.(component.InBackpack).Owner)
		if !ok {
			return nil, errDangling
		}
		return backpackDTO{Owner: id}, nil
	},
	decode: func(raw json.RawMessage, resolve resolveFunc) (ecs.Component, error) {
		var dto backpackDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		owner, ok := resolve(dto.Owner)
		if !ok {
			return nil, errDangling
		}
		return component.InBackpack{Owner: owner}, nil
	},
}

type pickupDTO struct {
	CollectedBy ulid.ULID `json:"collected_by"`
	Item        ulid.ULID `json:"item"`
}

var pickupCodec = codec{
	name:  "wants_to_pickup_item",
	ctype: component.CWantsToPickupItem,
	encode: func(c ecs.Component, ref refFunc) (any, error) {
		p := c.(component.WantsToPickupItem)
		by, ok1 := ref(p.CollectedBy)
		item, ok2 := ref(p.Item)
		if !ok1 || !ok2 {
			return nil, errDangling
		}
		return pickupDTO{CollectedBy: by, Item: item}, nil
	},
	decode: func(raw json.RawMessage, resolve resolveFunc) (ecs.Component, error) {
		var dto pickupDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		by, ok1 := resolve(dto.CollectedBy)
		item, ok2 := resolve(dto.Item)
		if !ok1 || !ok2 {
			return nil, errDangling
		}
		return component.WantsToPickupItem{CollectedBy: by, Item: item}, nil
	},
}

type useDTO struct {
	Item   ulid.ULID      `json:"item"`
	Target *gamemap.Point `json:"target,omitempty"`
}

var useCodec = codec{
	name:  "wants_to_use_item",
	ctype: component.CWantsToUseItem,
	encode: func(c ecs.Component, ref refFunc) (any, error) {
		u := c.(component.WantsToUseItem)
		item, ok := ref(u.Item)
		if !ok {
			return nil, errDangling
		}
		return useDTO{Item: item, Target: u.Target}, nil
	},
	decode: func(raw json.RawMessage, resolve resolveFunc) (ecs.Component, error) {
		var dto useDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		item, ok := resolve(dto.Item)
		if !ok {
			return nil, errDangling
		}
		return component.WantsToUseItem{Item: item, Target: dto.Target}, nil
	},
}

type dropDTO struct {
	Item ulid.ULID `json:"item"`
}

var dropCodec = codec{
	name:  "wants_to_drop_item",
	ctype: component.CWantsToDropItem,
	encode: func(c ecs.Component, ref refFunc) (any, error) {
		item, ok := ref(c.(component.WantsToDropItem).Item)
		if !ok {
			return nil, errDangling
		}
		return dropDTO{Item: item}, nil
	},
	decode: func(raw json.RawMessage, resolve resolveFunc) (ecs.Component, error) {
		var dto dropDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		item, ok := resolve(dto.Item)
		if !ok {
			return nil, errDangling
		}
		return component.WantsToDropItem{Item: item}, nil
	},
}
