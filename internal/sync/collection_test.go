package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecord is a minimal record for exercising the collection. Tags gives
// it a reference-typed field so copy semantics can be checked.
type testRecord struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

func (r testRecord) EntityID() string { return r.ID }
func (r testRecord) WithID(id string) testRecord {
	r.ID = id
	return r
}
func (r testRecord) Clone() testRecord {
	r.Tags = append([]string(nil), r.Tags...)
	return r
}

func TestCollection_UpsertIdempotent(t *testing.T) {
	c := NewCollection[testRecord]()
	record := testRecord{ID: "a", Name: "first"}

	c.Upsert(record)
	c.Upsert(record)

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, record, got)
}

func TestCollection_UpsertPreservesPosition(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a", Name: "first"})
	c.Upsert(testRecord{ID: "b", Name: "second"})
	c.Upsert(testRecord{ID: "c", Name: "third"})

	// Replacing a keeps it in front
	c.Upsert(testRecord{ID: "a", Name: "replaced"})

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "a", snapshot[0].ID)
	assert.Equal(t, "replaced", snapshot[0].Name)
	assert.Equal(t, "b", snapshot[1].ID)
	assert.Equal(t, "c", snapshot[2].ID)
}

func TestCollection_UpsertIgnoresEmptyID(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{Name: "no id"})
	assert.Equal(t, 0, c.Len())
}

func TestCollection_RemoveIdempotent(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a"})

	c.Remove("a")
	c.Remove("a")
	c.Remove("never-existed")

	assert.Equal(t, 0, c.Len())
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a", Name: "first"})

	snapshot := c.Snapshot()
	snapshot[0].Name = "mutated"

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", got.Name)
}

func TestCollection_SnapshotDoesNotShareSliceFields(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a", Tags: []string{"vip"}})

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 1)
	snapshot[0].Tags[0] = "mutated"

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"vip"}, got.Tags)
}

func TestCollection_GetDoesNotShareSliceFields(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a", Tags: []string{"vip"}})

	first, ok := c.Get("a")
	require.True(t, ok)
	first.Tags[0] = "mutated"

	second, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"vip"}, second.Tags)

	found, ok := c.Find(func(r testRecord) bool { return r.ID == "a" })
	require.True(t, ok)
	assert.Equal(t, []string{"vip"}, found.Tags)
}

func TestCollection_UpsertDetachesFromCallerSlice(t *testing.T) {
	c := NewCollection[testRecord]()
	record := testRecord{ID: "a", Tags: []string{"vip"}}
	c.Upsert(record)

	// Mutating the caller's copy after the upsert must not leak in
	record.Tags[0] = "mutated"

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"vip"}, got.Tags)
}

func TestCollection_Find(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a", Name: "first"})
	c.Upsert(testRecord{ID: "b", Name: "second"})

	got, ok := c.Find(func(r testRecord) bool { return r.Name == "second" })
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = c.Find(func(r testRecord) bool { return r.Name == "third" })
	assert.False(t, ok)
}

func TestCollection_ReplaceAll(t *testing.T) {
	c := NewCollection[testRecord]()
	c.Upsert(testRecord{ID: "a"})
	c.Upsert(testRecord{ID: "b"})

	c.ReplaceAll([]testRecord{{ID: "c"}, {ID: "d"}, {ID: "c"}})

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "c", snapshot[0].ID)
	assert.Equal(t, "d", snapshot[1].ID)
	_, ok := c.Get("a")
	assert.False(t, ok)
}
