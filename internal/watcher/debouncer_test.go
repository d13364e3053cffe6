package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(t *testing.T, ch <-chan []FileEvent, timeout time.Duration) []FileEvent {
	t.Helper()
	select {
	case batch := <-ch:
		return batch
	case <-time.After(timeout):
		t.Fatal("timeout waiting for batch")
		return nil
	}
}

func TestDebouncer_SingleEvent_PassesThrough(t *testing.T) {
	// Given
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	// When
	d.Add(FileEvent{Path: "/data/a.json", Operation: OpModify})

	// Then
	batch := next(t, d.Output(), time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, "/data/a.json", batch[0].Path)
	assert.Equal(t, OpModify, batch[0].Operation)
}

func TestDebouncer_Coalescing(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want []Operation
	}{
		{"modify burst", []Operation{OpModify, OpModify, OpModify}, []Operation{OpModify}},
		{"create then modify", []Operation{OpCreate, OpModify}, []Operation{OpCreate}},
		{"delete then create", []Operation{OpDelete, OpCreate}, []Operation{OpModify}},
		{"modify then delete", []Operation{OpModify, OpDelete}, []Operation{OpDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDebouncer(20 * time.Millisecond)
			defer d.Stop()

			for _, op := range tt.ops {
				d.Add(FileEvent{Path: "/data/a.json", Operation: op})
			}

			batch := next(t, d.Output(), time.Second)
			var got []Operation
			for _, e := range batch {
				got = append(got, e.Operation)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDebouncer_CreateThenDelete_NoBatch(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "/data/tmp.json", Operation: OpCreate})
	d.Add(FileEvent{Path: "/data/tmp.json", Operation: OpDelete})

	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected batch %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_BatchSortedByPath(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(FileEvent{Path: "/data/c.json", Operation: OpModify})
	d.Add(FileEvent{Path: "/data/a.json", Operation: OpModify})
	d.Add(FileEvent{Path: "/data/b.json", Operation: OpModify})

	batch := next(t, d.Output(), time.Second)
	require.Len(t, batch, 3)
	assert.Equal(t, "/data/a.json", batch[0].Path)
	assert.Equal(t, "/data/b.json", batch[1].Path)
	assert.Equal(t, "/data/c.json", batch[2].Path)
}

func TestDebouncer_StopClosesOutputAndIgnoresAdds(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	d.Stop()
	d.Stop()
	d.Add(FileEvent{Path: "/data/a.json", Operation: OpModify})

	_, open := <-d.Output()
	assert.False(t, open)
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "MODIFY", OpModify.String())
	assert.Equal(t, "DELETE", OpDelete.String())
	assert.Equal(t, "UNKNOWN", Operation(42).String())
}
