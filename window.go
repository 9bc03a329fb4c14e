package wjr

// A windowIndex maps the hash of the 3 bytes at each position in the
// trailing window to the positions that produced it.
//
// Each hash bucket holds a singly linked chain of nodes, oldest first. Nodes
// live in a dense pool addressed by small integer ids; id 0 is the empty
// sentinel. Released ids go on a free stack and are handed out again before
// the pool grows, so insertion and eviction never allocate.
type windowIndex struct {
	size       int // window size in bytes
	chainLimit int
	hashBits   int
	shift      uint

	// Per bucket.
	first []uint32
	last  []uint32
	count []uint32

	// Per node.
	next []uint32
	key  []int

	free []uint32
	used uint32 // highest id handed out so far
	live int
}

// init prepares x for a window of 1<<windowBits bytes and 1<<hashBits
// buckets, reusing its tables when the geometry is unchanged.
func (x *windowIndex) init(windowBits, hashBits, chainLimit int) {
	size := 1 << windowBits
	if x.size == size && x.hashBits == hashBits && x.chainLimit == chainLimit {
		x.reset()
		return
	}

	x.size = size
	x.chainLimit = chainLimit
	x.hashBits = hashBits
	x.shift = uint(32 - hashBits)

	buckets := 1 << hashBits
	x.first = make([]uint32, buckets)
	x.last = make([]uint32, buckets)
	x.count = make([]uint32, buckets)

	x.next = make([]uint32, size+1)
	x.key = make([]int, size+1)
	x.free = make([]uint32, 0, size)
	x.used = 0
	x.live = 0
}

// reset empties the index without releasing its memory.
func (x *windowIndex) reset() {
	clear(x.first)
	clear(x.last)
	clear(x.count)
	x.free = x.free[:0]
	x.used = 0
	x.live = 0
}

// hash returns the bucket for the 3 bytes at src[pos:].
func (x *windowIndex) hash(src []byte, pos int) uint32 {
	u := uint32(src[pos]) | uint32(src[pos+1])<<8 | uint32(src[pos+2])<<16
	return (u * fibMul) >> x.shift
}

// insert adds pos to its bucket. A full bucket loses its oldest entry first,
// even if that entry is still inside the window.
func (x *windowIndex) insert(src []byte, pos int) {
	h := x.hash(src, pos)
	if int(x.count[h]) >= x.chainLimit {
		x.popFirst(h)
	}

	n := x.alloc()
	x.key[n] = pos
	x.next[n] = 0
	if x.first[h] == 0 {
		x.first[h] = n
	} else {
		x.next[x.last[h]] = n
	}
	x.last[h] = n
	x.count[h]++
}

// evict removes pos from the index. Positions are evicted in the order they
// were inserted, so pos can only be at the head of its chain; if it isn't,
// the chain limit already pushed it out.
func (x *windowIndex) evict(src []byte, pos int) {
	h := x.hash(src, pos)
	n := x.first[h]
	if n == 0 || x.key[n] != pos {
		return
	}
	x.popFirst(h)
}

func (x *windowIndex) popFirst(h uint32) {
	n := x.first[h]
	if n == x.last[h] {
		x.first[h] = 0
		x.last[h] = 0
	} else {
		x.first[h] = x.next[n]
	}
	x.next[n] = 0
	x.count[h]--
	x.release(n)
}

func (x *windowIndex) alloc() uint32 {
	x.live++
	if k := len(x.free); k > 0 {
		n := x.free[k-1]
		x.free = x.free[:k-1]
		return n
	}
	x.used++
	return x.used
}

func (x *windowIndex) release(n uint32) {
	x.live--
	x.free = append(x.free, n)
}

// candidates appends the positions sharing the bucket of src[pos:] to dst,
// oldest first, and returns dst.
func (x *windowIndex) candidates(dst []int, src []byte, pos int) []int {
	for n := x.first[x.hash(src, pos)]; n != 0; n = x.next[n] {
		dst = append(dst, x.key[n])
	}
	return dst
}

func (x *windowIndex) chainLength(h uint32) int {
	return int(x.count[h])
}
