package component

import "dungeoncrawl/internal/ecs"

const (
	CBlocksTile ecs.ComponentType = 4
	CItem       ecs.ComponentType = 9
	CConsumable ecs.ComponentType = 10
	CPlayer     ecs.ComponentType = 19
	CMonster    ecs.ComponentType = 20
)

// BlocksTile marks an entity that occupies its tile (blocks movement).
type BlocksTile struct{}

func (BlocksTile) Type() ecs.ComponentType { return CBlocksTile }

// Item marks an entity that can be picked up.
type Item struct{}

func (Item) Type() ecs.ComponentType { return CItem }

// Consumable items are destroyed when used.
type Consumable struct{}

func (Consumable) Type() ecs.ComponentType { return CConsumable }

// Player marks the player-controlled entity.
type Player struct{}

func (Player) Type() ecs.ComponentType { return CPlayer }

type Monster struct{}

func (Monster) Type() ecs.ComponentType { return CMonster }
