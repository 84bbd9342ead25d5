package ecs

// SpawnFunc attaches components to a freshly created entity at commit time.
type SpawnFunc func(id EntityID)

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and the deferred destroy and spawn queues flushed by the commit
// system once per tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	pending      map[EntityID]struct{}
	spawnQueue   []SpawnFunc
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		pending:      make(map[EntityID]struct{}, 64),
		spawnQueue:   make([]SpawnFunc, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates an id immediately. Only setup code outside a tick
// (level loading, tests) should call it; systems use QueueSpawn.
func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Marking the
// same entity twice in one tick is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	if _, dup := w.pending[id]; dup {
		return
	}
	w.pending[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports whether id is queued for removal this tick.
func (w *World) PendingDestruction(id EntityID) bool {
	_, ok := w.pending[id]
	return ok
}

// QueueSpawn defers entity creation to the commit phase.
func (w *World) QueueSpawn(fn SpawnFunc) {
	w.spawnQueue = append(w.spawnQueue, fn)
}

// PendingSpawns returns how many spawns are queued.
func (w *World) PendingSpawns() int {
	return len(w.spawnQueue)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
func (w *World) FlushDestroyQueue() int {
	n := len(w.destroyQueue)
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		delete(w.pending, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// FlushSpawnQueue creates every queued entity in queue order and returns the
// new ids. Called after FlushDestroyQueue so freed indices are reused.
func (w *World) FlushSpawnQueue() []EntityID {
	if len(w.spawnQueue) == 0 {
		return nil
	}
	ids := make([]EntityID, 0, len(w.spawnQueue))
	for i, fn := range w.spawnQueue {
		id := w.pool.Create()
		fn(id)
		ids = append(ids, id)
		w.spawnQueue[i] = nil
	}
	w.spawnQueue = w.spawnQueue[:0]
	return ids
}
