package ecs

// EntityID is the opaque handle to a simulated agent or collectible. It
// packs a 32-bit pool index in the lower half and a 32-bit generation in
// the upper half; the generation increments when the slot is destroyed,
// so a stale handle held by a reservation manager or a grid cell simply
// stops matching instead of pointing at a recycled entity.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool allocates handles with generational indices and a free list.
// Alive is the liveness check every read site in the core relies on.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	p := &EntityPool{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
	// Slot 0 is never handed out: the zero EntityID means "none"
	// everywhere (empty target slot, no claimed item).
	p.generations = append(p.generations, 1)
	p.nextIndex = 1
	return p
}

func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already destroyed (stale reference)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

// LiveCount returns the number of currently allocated entities. The
// reserved zero slot does not count.
func (p *EntityPool) LiveCount() int {
	return int(p.nextIndex) - len(p.freeList) - 1
}
