package dispatch

import (
	"log/slog"
	"testing"

	"vpptest/pkg/config"
	"vpptest/pkg/log"
	"vpptest/pkg/test"

	"github.com/stretchr/testify/assert"
)

func planFor(t *testing.T, argv ...string) *Plan {
	t.Helper()
	fs := NewFlagSet(config.Default(), log.NewNop())
	fs.ParseArguments(argv)
	return BuildPlan(fs, log.NewNop())
}

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantArgs []string
	}{
		{
			name:     "no arguments means full suite with no extras",
			argv:     nil,
			wantArgs: nil,
		},
		{
			name:     "test=all contributes nothing",
			argv:     []string{"--test=all"},
			wantArgs: nil,
		},
		{
			name:     "single test adds run filter",
			argv:     []string{"--test=VethsSuite"},
			wantArgs: []string{"-run", "VethsSuite"},
		},
		{
			name:     "arguments apply in the order given",
			argv:     []string{"--test=Foo", "--persist=true"},
			wantArgs: []string{"-run", "Foo", "-persist"},
		},
		{
			name:     "reversed order reverses the accumulator",
			argv:     []string{"--persist=true", "--test=Foo"},
			wantArgs: []string{"-persist", "-run", "Foo"},
		},
		{
			name:     "cpus is forwarded verbatim",
			argv:     []string{"--cpus=4"},
			wantArgs: []string{"-cpus", "4"},
		},
		{
			name:     "cpus is forwarded even when nonsensical",
			argv:     []string{"--cpus=banana"},
			wantArgs: []string{"-cpus", "banana"},
		},
		{
			name:     "verbose is unconditional",
			argv:     []string{"--verbose=true"},
			wantArgs: []string{"-verbose"},
		},
		{
			name:     "false values contribute nothing",
			argv:     []string{"--persist=false", "--debug=false", "--verbose=false", "--unconfigure=false"},
			wantArgs: nil,
		},
		{
			name:     "everything together",
			argv:     []string{"--test=Foo", "--debug=true", "--cpus=2", "--unconfigure=true"},
			wantArgs: []string{"-run", "Foo", "-debug", "-cpus", "2", "-unconfigure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := planFor(t, tt.argv...)
			assert.Equal(t, tt.wantArgs, p.Args)
		})
	}
}

func TestBuildPlan_DerivedState(t *testing.T) {
	t.Run("single test mode", func(t *testing.T) {
		p := planFor(t, "--test=Foo", "--persist=true", "--debug=true", "--unconfigure=true")
		assert.True(t, p.SingleTest)
		assert.Equal(t, "Foo", p.TestFilter)
		assert.True(t, p.PersistSet)
		assert.True(t, p.DebugSet)
		assert.True(t, p.UnconfigureSet)
	})

	t.Run("full suite", func(t *testing.T) {
		p := planFor(t, "--test=all")
		assert.False(t, p.SingleTest)
		assert.Empty(t, p.TestFilter)
	})

	t.Run("cpus tracked for diagnostics", func(t *testing.T) {
		p := planFor(t, "--cpus=8")
		assert.True(t, p.CpusSet)
		assert.Equal(t, "8", p.Cpus)
	})
}

func TestBuildPlan_UnsetBooleanWarnsAndDoesNothing(t *testing.T) {
	logger := test.NewMockLogger(slog.LevelDebug)
	fs := NewFlagSet(config.Default(), log.NewNop())
	fs.ParseArguments([]string{"--persist=maybe"})

	p := BuildPlan(fs, logger)

	assert.Empty(t, p.Args)
	assert.False(t, p.PersistSet)
	assert.True(t, logger.Contains("neither true nor false"))
}

func TestBuildPlan_ConfigSeedThenArgvOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Persist = true

	fs := NewFlagSet(cfg, log.NewNop())
	fs.ParseArguments([]string{"--persist=false", "--test=Foo"})

	p := BuildPlan(fs, log.NewNop())
	assert.Equal(t, []string{"-run", "Foo"}, p.Args)
	assert.False(t, p.PersistSet)
}
