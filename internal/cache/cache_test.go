package cache

import (
	"context"
	"testing"
	"time"

	"github.com/limaJavier/examseating/internal/config"
	"github.com/limaJavier/examseating/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input() model.ModelInput {
	return model.ModelInput{
		Students:     []model.Student{{Id: 1, Exam: "math"}, {Id: 2, Exam: "art"}},
		Rooms:        []model.Room{{Id: "R1", Rows: 2, Cols: 2}},
		Restrictions: model.Restrictions{"math": {"R1"}, "art": {"R1"}},
	}
}

func settings() Settings {
	return Settings{Solver: "gini", Timeout: 2 * time.Minute, Workers: 4, SeparationCap: model.DefaultSeparationCap}
}

func TestKey(t *testing.T) {
	key := func(input model.ModelInput, settings Settings) string {
		t.Helper()
		key, err := Key("seating", input, settings)
		require.NoError(t, err)
		return key
	}
	base := key(input(), settings())

	t.Run("Stable", func(t *testing.T) {
		assert.Equal(t, base, key(input(), settings()))
		assert.Regexp(t, `^seating:result:[0-9a-f]{16}$`, base)
	})

	t.Run("Restriction order is irrelevant", func(t *testing.T) {
		reordered := input()
		reordered.Restrictions = model.Restrictions{"art": {"R1"}, "math": {"R1"}}

		assert.Equal(t, base, key(reordered, settings()))
	})

	for name, mutate := range map[string]func(input *model.ModelInput){
		"Student exam":   func(input *model.ModelInput) { input.Students[0].Exam = "physics" },
		"Student order":  func(input *model.ModelInput) { input.Students[0], input.Students[1] = input.Students[1], input.Students[0] },
		"Room aisles":    func(input *model.ModelInput) { input.Rooms[0].SkipCols = true },
		"Restriction":    func(input *model.ModelInput) { input.Restrictions["art"] = []string{"R2"} },
		"Timeout budget": func(input *model.ModelInput) { input.TimeoutSeconds = 5 },
	} {
		t.Run(name, func(t *testing.T) {
			changed := input()
			mutate(&changed)

			assert.NotEqual(t, base, key(changed, settings()))
		})
	}

	for name, mutate := range map[string]func(settings *Settings){
		"Engine":          func(settings *Settings) { settings.Solver = "gophersat" },
		"Default timeout": func(settings *Settings) { settings.Timeout = time.Minute },
		"Workers":         func(settings *Settings) { settings.Workers = 1 },
		"Separation cap":  func(settings *Settings) { settings.SeparationCap = 10 },
		"Tight linking":   func(settings *Settings) { settings.TightLinking = true },
		"Matching limit":  func(settings *Settings) { settings.MatchingLimit = 1000 },
	} {
		t.Run(name, func(t *testing.T) {
			changed := settings()
			mutate(&changed)

			assert.NotEqual(t, base, key(input(), changed))
		})
	}
}

func TestSettingsOf(t *testing.T) {
	cfg := config.Config{Solver: "portfolio", Timeout: time.Minute, Workers: 2, SeparationCap: -1, TightLinking: true, MatchingLimit: 50}

	assert.Equal(t, Settings{Solver: "portfolio", Timeout: time.Minute, Workers: 2, SeparationCap: -1, TightLinking: true, MatchingLimit: 50}, SettingsOf(cfg))
}

func TestNoCache(t *testing.T) {
	cache := NewNoCache()
	require.NoError(t, cache.Set(context.Background(), "key", model.Result{RoomsUsed: 1}))

	_, ok, err := cache.Get(context.Background(), "key")

	require.NoError(t, err)
	assert.False(t, ok)
}
