package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimcheck/internal/model"
)

func fileSource(label string) model.Source {
	return model.Source{Origin: model.OriginFile, Label: label, Content: "content of " + label}
}

func urlSource(label string) model.Source {
	return model.Source{Origin: model.OriginURL, Label: label, Content: "content of " + label}
}

func labels(sources []model.Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Label)
	}
	return out
}

// populate builds a store with f file sources and u url sources, inserted interleaved.
func populate(f, u int) *SourceStore {
	s := New()
	for i := 0; i < f || i < u; i++ {
		if i < u {
			s.Insert(urlSource(fmt.Sprintf("u%d", i)))
		}
		if i < f {
			s.Insert(fileSource(fmt.Sprintf("f%d", i)))
		}
	}
	return s
}

func TestNew_Empty(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())
}

func TestInsert_CombinedOrder(t *testing.T) {
	s := New()
	s.Insert(urlSource("u0"))
	s.Insert(fileSource("f0"))
	s.Insert(urlSource("u1"))
	s.Insert(fileSource("f1"))

	assert.Equal(t, []string{"f0", "f1", "u0", "u1"}, labels(s.Snapshot()))

	files, urls := s.Counts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 2, urls)
}

func TestInsert_DuplicatesAllowed(t *testing.T) {
	s := New()
	s.Insert(urlSource("same"))
	s.Insert(urlSource("same"))

	assert.Equal(t, 2, s.Len())
}

func TestRemoveAt_FileIndexLeavesURLsUntouched(t *testing.T) {
	for f := 1; f <= 3; f++ {
		for u := 0; u <= 3; u++ {
			for i := 0; i < f; i++ {
				s := populate(f, u)
				before := s.Snapshot()

				removed, ok := s.RemoveAt(i)
				require.True(t, ok)
				assert.Equal(t, fmt.Sprintf("f%d", i), removed.Label)

				after := s.Snapshot()
				require.Len(t, after, len(before)-1)
				// url sources are identical and in place after the files
				assert.Equal(t, labels(before[f:]), labels(after[f-1:]))
			}
		}
	}
}

func TestRemoveAt_URLIndexLeavesFilesUntouched(t *testing.T) {
	for f := 0; f <= 3; f++ {
		for u := 1; u <= 3; u++ {
			for i := f; i < f+u; i++ {
				s := populate(f, u)
				before := s.Snapshot()

				removed, ok := s.RemoveAt(i)
				require.True(t, ok)
				assert.Equal(t, fmt.Sprintf("u%d", i-f), removed.Label)

				after := s.Snapshot()
				assert.Equal(t, labels(before[:f]), labels(after[:f]))
				_, urls := s.Counts()
				assert.Equal(t, u-1, urls)
			}
		}
	}
}

func TestRemoveAt_OutOfRangeIsNoop(t *testing.T) {
	s := populate(2, 2)
	before := s.Snapshot()

	for _, i := range []int{-1, 4, 5, 100} {
		_, ok := s.RemoveAt(i)
		assert.False(t, ok, "index %d", i)
	}

	assert.Equal(t, before, s.Snapshot())
}

func TestRemoveAt_DoesNotAliasEarlierSnapshots(t *testing.T) {
	s := populate(3, 0)
	snap := s.Snapshot()

	_, ok := s.RemoveAt(0)
	require.True(t, ok)

	assert.Equal(t, []string{"f0", "f1", "f2"}, labels(snap))
	assert.Equal(t, []string{"f1", "f2"}, labels(s.Snapshot()))
}

func TestSnapshot_ReflectsCurrentState(t *testing.T) {
	s := New()
	s.Insert(fileSource("f0"))
	first := s.Snapshot()

	s.Insert(urlSource("u0"))
	second := s.Snapshot()

	assert.Len(t, first, 1)
	assert.Len(t, second, 2)

	second[0].Label = "mutated"
	assert.Equal(t, "f0", s.Snapshot()[0].Label)
}
