package notifier

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanops/fabric-watch/pkg/validator"
)

func TestSendRunResultsSkipsHealthyRuns(t *testing.T) {
	// A nil session would panic on send, so a clean return proves the
	// short-circuit.
	n := &DiscordNotifier{log: logrus.New()}

	results := []validator.Result{
		{Host: "MN01_HOST01", Final: validator.StatusGood},
		{Host: "MN01_HOST02", Final: validator.StatusGood},
	}
	summary := validator.Summary{TotalHosts: 2, Good: 2, PercentageGood: 100}

	require.NoError(t, n.SendRunResults("channel-1", "dc-west", "run-1", results, summary))
}

func TestBuildRunEmbed(t *testing.T) {
	results := []validator.Result{
		{Host: "MN01_HOST01", Final: validator.StatusGood},
		{Host: "MN01_HOST02", Final: validator.StatusFabABad},
		{Host: "MN01_HOST03", Final: validator.StatusBothBad},
		{Host: "MN01_HOST04", Final: validator.StatusFabBBad},
		{Host: "MN01_HOST05", Final: validator.StatusBothBad},
	}
	summary := validator.Summary{
		TotalHosts:     5,
		Good:           1,
		FabABad:        1,
		FabBBad:        1,
		BothBad:        2,
		PercentageGood: 20,
	}

	embed := buildRunEmbed("dc-west", "run-1", results, summary)

	assert.Contains(t, embed.Title, "dc-west")
	assert.Equal(t, 0xff0000, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "run-1")

	require.Len(t, embed.Fields, 4)
	assert.Contains(t, embed.Fields[0].Name, "4 of 5 hosts failed")
	assert.Contains(t, embed.Fields[0].Name, "20% good")

	// Statuses are ordered worst first.
	assert.Equal(t, "Both-Bad (2)", embed.Fields[1].Name)
	assert.Equal(t, "MN01_HOST03\nMN01_HOST05", embed.Fields[1].Value)
	assert.Equal(t, "FabA-Bad (1)", embed.Fields[2].Name)
	assert.Equal(t, "MN01_HOST02", embed.Fields[2].Value)
	assert.Equal(t, "FabB-Bad (1)", embed.Fields[3].Name)
	assert.Equal(t, "MN01_HOST04", embed.Fields[3].Value)
}

func TestBuildRunEmbedOmitsEmptyStatuses(t *testing.T) {
	results := []validator.Result{
		{Host: "MN01_HOST01", Final: validator.StatusFabBBad},
	}
	summary := validator.Summary{TotalHosts: 1, FabBBad: 1}

	embed := buildRunEmbed("dc-east", "run-2", results, summary)

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "FabB-Bad (1)", embed.Fields[1].Name)
}

func TestFormatHostList(t *testing.T) {
	t.Run("short lists are rendered in full", func(t *testing.T) {
		got := formatHostList([]string{"a", "b", "c"})
		assert.Equal(t, "a\nb\nc", got)
	})

	t.Run("long lists are truncated with a count", func(t *testing.T) {
		hosts := make([]string, maxHostsPerField+5)
		for i := range hosts {
			hosts[i] = fmt.Sprintf("host-%02d", i)
		}

		got := formatHostList(hosts)

		assert.Equal(t, maxHostsPerField+1, len(strings.Split(got, "\n")))
		assert.Contains(t, got, "and 5 more")
		assert.NotContains(t, got, fmt.Sprintf("host-%02d", maxHostsPerField))
	})
}
