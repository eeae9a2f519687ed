package carryover

import (
	"encoding/json"
	"sort"
	"sync"
)

const (
	// LastOpenedKey holds the calendar day of the previous session start.
	LastOpenedKey = "lastOpenedDate"
	// DealtWithPrefix prefixes the per-day dealt-with set keys.
	DealtWithPrefix = "dealtWith:"
)

// KV is the client-local key/value store used for the markers. Losing its
// contents is safe: at worst an item is prompted again.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// DealtWithKey returns the key of the dealt-with set for day ("2006-01-02").
func DealtWithKey(day string) string {
	return DealtWithPrefix + day
}

// MemoryKV is an in-memory KV.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (kv *MemoryKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.m == nil {
		kv.m = make(map[string]string)
	}
	kv.m[key] = value
	return nil
}

// DealtWith reads the dealt-with set for day. A missing or unreadable value
// is an empty set.
func DealtWith(kv KV, day string) map[string]bool {
	set := make(map[string]bool)
	raw, ok, err := kv.Get(DealtWithKey(day))
	if err != nil || !ok || raw == "" {
		return set
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return set
	}
	for _, id := range list {
		set[id] = true
	}
	return set
}

// MarkDealtWith adds ids to the dealt-with set for day.
func MarkDealtWith(kv KV, day string, ids ...string) error {
	set := DealtWith(kv, day)
	for _, id := range ids {
		set[id] = true
	}
	list := make([]string, 0, len(set))
	for id := range set {
		list = append(list, id)
	}
	sort.Strings(list)
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return kv.Set(DealtWithKey(day), string(raw))
}
