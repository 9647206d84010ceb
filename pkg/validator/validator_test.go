package validator

import (
	"testing"

	"github.com/sanops/fabric-watch/pkg/zoning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(fabric zoning.Fabric, alias, wwn string, loggedIn bool) zoning.RawRow {
	return zoning.RawRow{
		Fabric:    fabric,
		Alias:     alias,
		MemberWWN: wwn,
		LoggedIn:  loggedIn,
	}
}

func TestRuleCheck(t *testing.T) {
	tests := []struct {
		name        string
		loggedIn    int
		notLoggedIn int
		expected    Verdict
	}{
		{name: "four-path host, half inactive", loggedIn: 2, notLoggedIn: 2, expected: VerdictOK},
		{name: "single-path host, active", loggedIn: 1, notLoggedIn: 0, expected: VerdictOK},
		{name: "no paths at all", loggedIn: 0, notLoggedIn: 0, expected: VerdictError},
		{name: "single path logged out", loggedIn: 0, notLoggedIn: 1, expected: VerdictError},
		{name: "one active one inactive", loggedIn: 1, notLoggedIn: 1, expected: VerdictError},
		{name: "all four active", loggedIn: 4, notLoggedIn: 0, expected: VerdictError},
		{name: "two active only", loggedIn: 2, notLoggedIn: 0, expected: VerdictError},
		{name: "three and two", loggedIn: 3, notLoggedIn: 2, expected: VerdictError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RuleCheck(tt.loggedIn, tt.notLoggedIn))
		})
	}
}

// The rule accepts exactly (2,2) and (1,0), nothing else in a generous
// sweep of the count space.
func TestRuleCheck_Totality(t *testing.T) {
	for l := 0; l <= 8; l++ {
		for n := 0; n <= 8; n++ {
			expected := VerdictError
			if (l == 2 && n == 2) || (l == 1 && n == 0) {
				expected = VerdictOK
			}

			assert.Equalf(t, expected, RuleCheck(l, n), "loggedIn=%d notLoggedIn=%d", l, n)
		}
	}
}

func TestFinalStatus(t *testing.T) {
	assert.Equal(t, StatusGood, finalStatus(VerdictOK, VerdictOK))
	assert.Equal(t, StatusFabABad, finalStatus(VerdictError, VerdictOK))
	assert.Equal(t, StatusFabBBad, finalStatus(VerdictOK, VerdictError))
	assert.Equal(t, StatusBothBad, finalStatus(VerdictError, VerdictError))
}

func TestValidate_HealthyFourPathHost(t *testing.T) {
	rows := []zoning.RawRow{
		row(zoning.FabricA, "srv1_1s", "50:00:01", true),
		row(zoning.FabricA, "srv1_2s", "50:00:02", true),
		row(zoning.FabricA, "srv1_3s", "50:00:03", false),
		row(zoning.FabricA, "srv1_4s", "50:00:04", false),
		row(zoning.FabricB, "srv1_1s", "50:00:05", true),
		row(zoning.FabricB, "srv1_2s", "50:00:06", true),
		row(zoning.FabricB, "srv1_3s", "50:00:07", false),
		row(zoning.FabricB, "srv1_4s", "50:00:08", false),
	}

	results := New(rows).Validate()
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "srv1", r.Host)
	assert.Equal(t, VerdictOK, r.VerdictA)
	assert.Equal(t, VerdictOK, r.VerdictB)
	assert.Equal(t, StatusGood, r.Final)
	assert.Equal(t, FabricCounts{LoggedIn: 2, NotLoggedIn: 2}, r.FabricA)
	assert.Equal(t, FabricCounts{LoggedIn: 2, NotLoggedIn: 2}, r.FabricB)
	assert.Len(t, r.WWNs, 8)
}

func TestValidate_SinglePathHostMissingFabricB(t *testing.T) {
	rows := []zoning.RawRow{
		row(zoning.FabricA, "srv2_1s", "50:00:01", true),
	}

	results := New(rows).Validate()
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, VerdictOK, r.VerdictA)
	assert.Equal(t, VerdictError, r.VerdictB)
	assert.Equal(t, StatusFabBBad, r.Final)
}

func TestValidate_DuplicateRowsCollapse(t *testing.T) {
	// Same (fabric, alias, WWN) triple twice; the login flag is not part
	// of the key, so only the first row is retained.
	rows := []zoning.RawRow{
		row(zoning.FabricA, "srv3_1s", "50:00:01", true),
		row(zoning.FabricA, "srv3_1s", "50:00:01", true),
	}

	v := New(rows)
	results := v.Validate()
	require.Len(t, results, 1)

	sum := v.Summarize(results)
	assert.Equal(t, 2, sum.OriginalRows)
	assert.Equal(t, 1, sum.DuplicatesRemoved)
	assert.Equal(t, 1, sum.UniqueRows)
	assert.Equal(t, FabricCounts{LoggedIn: 1, NotLoggedIn: 0}, results[0].FabricA)
}

func TestValidate_EmptyInput(t *testing.T) {
	v := New(nil)

	results := v.Validate()
	assert.Empty(t, results)

	sum := v.Summarize(results)
	assert.Equal(t, 0, sum.TotalHosts)
	assert.Equal(t, 0, sum.PercentageGood)
}

func TestValidate_UnrecognizedFabricNotCounted(t *testing.T) {
	rows := []zoning.RawRow{
		row(zoning.FabricA, "srv4_1s", "50:00:01", true),
		row(zoning.Fabric("C"), "srv4_2s", "50:00:02", true),
	}

	results := New(rows).Validate()
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, FabricCounts{LoggedIn: 1, NotLoggedIn: 0}, r.FabricA)
	assert.Equal(t, FabricCounts{}, r.FabricB)
	assert.Len(t, r.WWNs, 1)
}

func TestValidate_WWNsDistinctPerFabricInsertionOrder(t *testing.T) {
	// Same WWN on both fabrics yields two entries; a repeat observation on
	// the same fabric under a different alias does not add a third.
	rows := []zoning.RawRow{
		row(zoning.FabricB, "srv5_1s", "50:00:01", true),
		row(zoning.FabricA, "srv5_2s", "50:00:01", false),
		row(zoning.FabricB, "srv5_3s", "50:00:01", false),
	}

	results := New(rows).Validate()
	require.Len(t, results, 1)

	r := results[0]
	require.Len(t, r.WWNs, 2)
	assert.Equal(t, zoning.FabricB, r.WWNs[0].Fabric)
	assert.True(t, r.WWNs[0].LoggedIn)
	assert.Equal(t, zoning.FabricA, r.WWNs[1].Fabric)
}

func TestValidate_SortedByHost(t *testing.T) {
	rows := []zoning.RawRow{
		row(zoning.FabricA, "zulu_1s", "50:00:01", true),
		row(zoning.FabricA, "alpha_1s", "50:00:02", true),
		row(zoning.FabricA, "mike_1s", "50:00:03", true),
	}

	results := New(rows).Validate()
	require.Len(t, results, 3)
	assert.Equal(t, "alpha", results[0].Host)
	assert.Equal(t, "mike", results[1].Host)
	assert.Equal(t, "zulu", results[2].Host)
}

func TestValidate_Idempotent(t *testing.T) {
	rows := []zoning.RawRow{
		row(zoning.FabricA, "srv1_1s", "50:00:01", true),
		row(zoning.FabricB, "srv2_1s", "50:00:02", false),
	}

	v := New(rows)
	first := v.Validate()
	second := v.Validate()
	assert.Equal(t, first, second)
}

func TestSummarize_Consistency(t *testing.T) {
	rows := []zoning.RawRow{
		// Good: single path on each fabric.
		row(zoning.FabricA, "good_1s", "50:00:01", true),
		row(zoning.FabricB, "good_2s", "50:00:02", true),
		// FabB-Bad: fabric B missing entirely.
		row(zoning.FabricA, "bbad_1s", "50:00:03", true),
		// FabA-Bad: fabric A logged out.
		row(zoning.FabricA, "abad_1s", "50:00:04", false),
		row(zoning.FabricB, "abad_2s", "50:00:05", true),
		// Both-Bad: nothing valid anywhere.
		row(zoning.FabricA, "ugly_1s", "50:00:06", false),
		row(zoning.FabricB, "ugly_2s", "50:00:07", false),
		// A duplicate to exercise the dedup counters.
		row(zoning.FabricA, "good_1s", "50:00:01", true),
	}

	v := New(rows)
	results := v.Validate()
	sum := v.Summarize(results)

	assert.Equal(t, len(results), sum.TotalHosts)
	assert.Equal(t, sum.TotalHosts, sum.Good+sum.FabABad+sum.FabBBad+sum.BothBad)
	assert.Equal(t, sum.OriginalRows, sum.UniqueRows+sum.DuplicatesRemoved)

	assert.Equal(t, 1, sum.Good)
	assert.Equal(t, 1, sum.FabABad)
	assert.Equal(t, 1, sum.FabBBad)
	assert.Equal(t, 1, sum.BothBad)
	assert.Equal(t, 25, sum.PercentageGood)
}

func TestSummarize_PercentageRounding(t *testing.T) {
	// Two of three hosts good rounds 66.67 to 67.
	rows := []zoning.RawRow{
		row(zoning.FabricA, "h1_1s", "01", true),
		row(zoning.FabricB, "h1_2s", "02", true),
		row(zoning.FabricA, "h2_1s", "03", true),
		row(zoning.FabricB, "h2_2s", "04", true),
		row(zoning.FabricA, "h3_1s", "05", false),
	}

	v := New(rows)
	sum := v.Summarize(v.Validate())
	assert.Equal(t, 3, sum.TotalHosts)
	assert.Equal(t, 2, sum.Good)
	assert.Equal(t, 67, sum.PercentageGood)
}
