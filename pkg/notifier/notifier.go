// Package notifier pushes validation run outcomes to Discord. Only runs
// with failing hosts produce a message; healthy runs stay quiet.
package notifier

import (
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/sanops/fabric-watch/pkg/http"
	"github.com/sanops/fabric-watch/pkg/validator"
)

//go:generate mockgen -package mock -destination mock/notifier.mock.go github.com/sanops/fabric-watch/pkg/notifier Notifier

// maxHostsPerField caps how many hosts we list per status before
// collapsing the rest into a count. Discord embed field values are
// limited to 1024 characters.
const maxHostsPerField = 15

// Notifier is the interface for sending run results.
type Notifier interface {
	// SendRunResults sends the outcome of a validation run.
	SendRunResults(channelID, dataset, runID string, results []validator.Result, summary validator.Summary) error
}

// DiscordNotifier is a Discord implementation of Notifier.
type DiscordNotifier struct {
	log     *logrus.Logger
	session *discordgo.Session
}

// Order statuses as we want them to be displayed, worst first.
var orderedStatuses = []validator.FinalStatus{
	validator.StatusBothBad,
	validator.StatusFabABad,
	validator.StatusFabBBad,
}

// NewDiscordNotifier creates a new DiscordNotifier. When metrics is
// non-nil the session's HTTP traffic is routed through an instrumented
// transport.
func NewDiscordNotifier(log *logrus.Logger, token string, metrics *http.Metrics) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if metrics != nil {
		session.Client = &nethttp.Client{
			Transport: http.NewMetricsRoundTripper(nil, metrics, log, http.WithService("discord")),
			Timeout:   30 * time.Second,
		}
	}

	return &DiscordNotifier{
		log:     log,
		session: session,
	}, nil
}

// SendRunResults sends the run outcome to the given channel. Runs where
// every host validated Good are not announced.
func (n *DiscordNotifier) SendRunResults(channelID, dataset, runID string, results []validator.Result, summary validator.Summary) error {
	badHosts := summary.TotalHosts - summary.Good
	if badHosts == 0 {
		n.log.WithFields(logrus.Fields{
			"dataset": dataset,
			"runID":   runID,
		}).Debug("All hosts validated Good, skipping notification")

		return nil
	}

	embed := buildRunEmbed(dataset, runID, results, summary)

	if _, err := n.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}

	return nil
}

// buildRunEmbed builds the message embed for a run with failures.
func buildRunEmbed(dataset, runID string, results []validator.Result, summary validator.Summary) *discordgo.MessageEmbed {
	badHosts := summary.TotalHosts - summary.Good

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🔍 Fabric Login Validation (%s)", dataset),
		Color:     0xff0000,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields:    make([]*discordgo.MessageEmbedField, 0),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Run %s", runID),
		},
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: fmt.Sprintf("%d of %d hosts failed validation (%d%% good)",
			badHosts, summary.TotalHosts, summary.PercentageGood),
		Inline: false,
	})

	// Group failing hosts by status.
	hostsByStatus := make(map[validator.FinalStatus][]string)

	for _, result := range results {
		if result.Final == validator.StatusGood {
			continue
		}

		hostsByStatus[result.Final] = append(hostsByStatus[result.Final], result.Host)
	}

	for _, status := range orderedStatuses {
		hosts, exists := hostsByStatus[status]
		if !exists {
			continue
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", status, len(hosts)),
			Value:  formatHostList(hosts),
			Inline: false,
		})
	}

	return embed
}

// formatHostList renders hosts one per line, collapsing overflow into a
// trailing count.
func formatHostList(hosts []string) string {
	if len(hosts) <= maxHostsPerField {
		return strings.Join(hosts, "\n")
	}

	shown := strings.Join(hosts[:maxHostsPerField], "\n")

	return fmt.Sprintf("%s\n… and %d more", shown, len(hosts)-maxHostsPerField)
}
