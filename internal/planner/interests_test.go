package planner

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func people(lists ...[]string) []Person {
	out := make([]Person, 0, len(lists))
	for _, l := range lists {
		out = append(out, Person{Interests: l})
	}
	return out
}

func TestAggregateInterests_CaseInsensitiveMerge(t *testing.T) {
	p := AggregateInterests(people(
		[]string{"Food", "Art"},
		[]string{"food", "Nightlife"},
	))

	assert.Equal(t, []string{"Food", "Art", "Nightlife"}, p.AllInterests)
	assert.Equal(t, []string{"Food"}, p.CommonInterests)
	assert.Equal(t, []string{"Art", "Nightlife"}, p.UniqueInterests)
	assert.Equal(t, []string{"Food", "Art", "Nightlife"}, p.PriorityInterests)
	assert.Equal(t, "Group interests: Food, Art, Nightlife. PRIORITY: Food, Art, Nightlife", p.Summary)
}

func TestAggregateInterests_NoRepeats(t *testing.T) {
	p := AggregateInterests(people([]string{"museums", "comedy", "pickleball"}))

	assert.Empty(t, p.CommonInterests)
	assert.Equal(t, p.AllInterests, p.PriorityInterests)
	assert.Equal(t, []string{"Museums", "Comedy", "Pickleball"}, p.PriorityInterests)
}

func TestAggregateInterests_Empty(t *testing.T) {
	p := AggregateInterests(nil)

	assert.NotNil(t, p.AllInterests)
	assert.Empty(t, p.AllInterests)
	assert.Empty(t, p.CommonInterests)
	assert.Empty(t, p.UniqueInterests)
	assert.Empty(t, p.PriorityInterests)
	assert.Equal(t, "Group interests: none", p.Summary)

	p = AggregateInterests(people(nil, []string{}, []string{" ", ""}))
	assert.Empty(t, p.PriorityInterests)
}

func TestAggregateInterests_GroupScenario(t *testing.T) {
	p := AggregateInterests(people(
		[]string{"museums", "art", "food"},
		[]string{"food", "nightlife", "comedy"},
		[]string{"pickleball", "nightlife", "asian food"},
	))

	assert.Equal(t, []string{"Food", "Nightlife"}, p.CommonInterests)
	assert.Equal(t, []string{"Museums", "Art", "Comedy", "Pickleball", "Asian Food"}, p.UniqueInterests)
	assert.Equal(t, []string{"Food", "Nightlife", "Museums", "Art", "Comedy", "Pickleball", "Asian Food"}, p.PriorityInterests)
}

func TestAggregateInterests_CountOrderingWithTies(t *testing.T) {
	p := AggregateInterests(people(
		[]string{"hiking", "jazz", "food"},
		[]string{"jazz", "food", "hiking"},
		[]string{"food", "hiking"},
		[]string{"food"},
	))

	// food x4, hiking x3, jazz x2
	assert.Equal(t, []string{"Food", "Hiking", "Jazz"}, p.CommonInterests)

	p = AggregateInterests(people(
		[]string{"b", "a"},
		[]string{"a", "b"},
	))
	// tie keeps first-seen order
	assert.Equal(t, []string{"B", "A"}, p.CommonInterests)
}

func TestAggregateInterests_PriorityIsPermutationOfAll(t *testing.T) {
	groups := [][]Person{
		people([]string{"x", "y", "x"}, []string{"Y", "z"}),
		people([]string{"  street   food ", "Street Food"}, []string{"art"}),
		people([]string{"a"}, []string{"b"}, []string{"c"}, []string{"a", "b", "c"}),
	}

	for _, g := range groups {
		p := AggregateInterests(g)
		assert.ElementsMatch(t, p.AllInterests, p.PriorityInterests)
		assert.Len(t, p.PriorityInterests, len(p.AllInterests))
		assert.Len(t, p.PriorityInterests, len(p.CommonInterests)+len(p.UniqueInterests))
	}
}

func TestNormalizeInterest(t *testing.T) {
	assert.Equal(t, "Pickleball", NormalizeInterest("pickleball"))
	assert.Equal(t, "Pickleball", NormalizeInterest("  PICKLEBALL "))
	assert.Equal(t, "Asian Food", NormalizeInterest("asian   food"))
	assert.Equal(t, "", NormalizeInterest("   "))
}

func TestInterestList_UnmarshalJSON(t *testing.T) {
	var p Person
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Kyle","interests":"pickleball, nightlife ,asian food"}`), &p))
	assert.Equal(t, InterestList{"pickleball", "nightlife", "asian food"}, p.Interests)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Sam","interests":["museums","art"]}`), &p))
	assert.Equal(t, InterestList{"museums", "art"}, p.Interests)

	assert.Error(t, json.Unmarshal([]byte(`{"interests":42}`), &p))
}

func TestAggregateInterests_ConcurrentCalls(t *testing.T) {
	group := people(
		[]string{"street food", "ART museums", "Nightlife"},
		[]string{"Street Food", "hiking", "nightlife"},
	)
	want := AggregateInterests(group)

	const workers = 16
	results := make([][]InterestProfile, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				results[w] = append(results[w], AggregateInterests(group))
			}
		}(w)
	}
	wg.Wait()

	for _, rs := range results {
		for _, got := range rs {
			assert.Equal(t, want, got)
		}
	}
	assert.Equal(t, []string{"Street Food", "Nightlife"}, want.CommonInterests)
}
