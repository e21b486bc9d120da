package region

const minTableSize = 16

// cornerTable is an open-addressing hash table from packed cell keys to the
// eight corner values of that cell. It grows at half load.
type cornerTable struct {
	keys  []uint64
	vals  [][8]float64
	used  []bool
	count int
}

func mixKey(key uint64) uint64 {
	key *= 0x9e3779b97f4a7c15
	return key ^ key>>32
}

func (t *cornerTable) slot(key uint64) int {
	mask := len(t.keys) - 1
	i := int(mixKey(key) & uint64(mask))
	for t.used[i] && t.keys[i] != key {
		i = (i + 1) & mask
	}
	return i
}

func (t *cornerTable) get(key uint64) ([8]float64, bool) {
	if t.count == 0 {
		return [8]float64{}, false
	}
	i := t.slot(key)
	if !t.used[i] {
		return [8]float64{}, false
	}
	return t.vals[i], true
}

func (t *cornerTable) put(key uint64, v [8]float64) {
	if (t.count+1)*2 > len(t.keys) {
		t.grow()
	}
	i := t.slot(key)
	if !t.used[i] {
		t.used[i] = true
		t.keys[i] = key
		t.count++
	}
	t.vals[i] = v
}

func (t *cornerTable) grow() {
	old := *t
	size := max(minTableSize, len(old.keys)*2)
	*t = cornerTable{
		keys: make([]uint64, size),
		vals: make([][8]float64, size),
		used: make([]bool, size),
	}
	for i, u := range old.used {
		if u {
			t.put(old.keys[i], old.vals[i])
		}
	}
}

func (t *cornerTable) size() int { return t.count }
