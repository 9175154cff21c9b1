package holders

import "sync"

// Directory is an in-memory, read-mostly set of holders keyed by ID.
type Directory struct {
	mu   sync.RWMutex
	list []Holder
	byID map[string]int
}

func NewDirectory(hs []Holder) *Directory {
	d := &Directory{}
	d.Replace(hs)
	return d
}

// Replace swaps the directory contents. Later duplicates of an ID win.
func (d *Directory) Replace(hs []Holder) {
	list := make([]Holder, 0, len(hs))
	byID := make(map[string]int, len(hs))
	for _, h := range hs {
		if i, ok := byID[h.ID]; ok {
			list[i] = h
			continue
		}
		byID[h.ID] = len(list)
		list = append(list, h)
	}
	d.mu.Lock()
	d.list, d.byID = list, byID
	d.mu.Unlock()
}

func (d *Directory) Get(id string) (Holder, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.byID[id]
	if !ok {
		return Holder{}, false
	}
	return d.list[i], true
}

func (d *Directory) All() []Holder {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Holder(nil), d.list...)
}

func (d *Directory) Filter(opt FilterOptions) []Holder {
	return Filter(d.All(), opt)
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.list)
}
