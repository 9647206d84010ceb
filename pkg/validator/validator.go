package validator

import (
	"math"
	"sort"

	"github.com/sanops/fabric-watch/pkg/zoning"
)

// Validator classifies per-host fabric connectivity from a deduplicated
// zoning row set. Construction dedupes the input once; Validate may be
// called any number of times and always produces the same output. A
// Validator is confined to a single dataset, callers validating multiple
// datasets concurrently use one instance each.
type Validator struct {
	rows              []zoning.RawRow
	originalRows      int
	duplicatesRemoved int
}

// New creates a Validator over the given rows. The input is deduplicated
// immediately and not observed again afterwards.
func New(rows []zoning.RawRow) *Validator {
	unique := zoning.Dedupe(rows)

	return &Validator{
		rows:              unique,
		originalRows:      len(rows),
		duplicatesRemoved: len(rows) - len(unique),
	}
}

// wwnSeenKey identifies a (WWN, fabric) pair within one host aggregate.
type wwnSeenKey struct {
	wwn    string
	fabric zoning.Fabric
}

// hostAggregate accumulates the per-fabric counters and WWN observations
// for one host while rows are consumed.
type hostAggregate struct {
	host    string
	fabricA FabricCounts
	fabricB FabricCounts
	wwns    []WWNEntry
	seen    map[wwnSeenKey]struct{}
}

func (a *hostAggregate) consume(row zoning.RawRow) {
	switch row.Fabric {
	case zoning.FabricA:
		if row.LoggedIn {
			a.fabricA.LoggedIn++
		} else {
			a.fabricA.NotLoggedIn++
		}
	case zoning.FabricB:
		if row.LoggedIn {
			a.fabricB.LoggedIn++
		} else {
			a.fabricB.NotLoggedIn++
		}
	default:
		// Unrecognized fabric, the row neither counts nor records a WWN.
		return
	}

	key := wwnSeenKey{wwn: row.MemberWWN, fabric: row.Fabric}
	if _, ok := a.seen[key]; ok {
		return
	}

	a.seen[key] = struct{}{}
	a.wwns = append(a.wwns, WWNEntry{
		WWN:      row.MemberWWN,
		LoggedIn: row.LoggedIn,
		Fabric:   row.Fabric,
	})
}

// Validate groups the deduplicated rows by host identity, applies the
// path-count rule per fabric and returns one result per host, sorted by
// host name. It never fails, every input row resolves to classified
// output.
func (v *Validator) Validate() []Result {
	var (
		aggregates = make(map[string]*hostAggregate)
		order      = make([]string, 0)
	)

	for _, row := range v.rows {
		host := zoning.HostName(row.Alias)

		agg, ok := aggregates[host]
		if !ok {
			agg = &hostAggregate{
				host: host,
				seen: make(map[wwnSeenKey]struct{}),
			}
			aggregates[host] = agg
			order = append(order, host)
		}

		agg.consume(row)
	}

	results := make([]Result, 0, len(order))

	for _, host := range order {
		agg := aggregates[host]

		verdictA := RuleCheck(agg.fabricA.LoggedIn, agg.fabricA.NotLoggedIn)
		verdictB := RuleCheck(agg.fabricB.LoggedIn, agg.fabricB.NotLoggedIn)

		results = append(results, Result{
			Host:     agg.host,
			WWNs:     agg.wwns,
			FabricA:  agg.fabricA,
			FabricB:  agg.fabricB,
			VerdictA: verdictA,
			VerdictB: verdictB,
			Final:    finalStatus(verdictA, verdictB),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Host < results[j].Host
	})

	return results
}

// RuleCheck classifies one fabric's path counts for a host. The two
// accepted shapes are a four-path host with exactly half its paths
// inactive per fabric (2 logged in, 2 not) and a single-path host with
// one active path and none inactive (1, 0). Everything else, including a
// fabric with no paths at all, is an error.
func RuleCheck(loggedIn, notLoggedIn int) Verdict {
	if (loggedIn == 2 && notLoggedIn == 2) || (loggedIn == 1 && notLoggedIn == 0) {
		return VerdictOK
	}

	return VerdictError
}

// finalStatus combines the two per-fabric verdicts. Total over all four
// combinations.
func finalStatus(a, b Verdict) FinalStatus {
	switch {
	case a == VerdictOK && b == VerdictOK:
		return StatusGood
	case a == VerdictError && b == VerdictError:
		return StatusBothBad
	case a == VerdictError:
		return StatusFabABad
	default:
		return StatusFabBBad
	}
}

// Summarize aggregates the results of a run together with the row counts
// captured at construction.
func (v *Validator) Summarize(results []Result) Summary {
	sum := Summary{
		TotalHosts:        len(results),
		OriginalRows:      v.originalRows,
		DuplicatesRemoved: v.duplicatesRemoved,
		UniqueRows:        len(v.rows),
	}

	for _, r := range results {
		switch r.Final {
		case StatusGood:
			sum.Good++
		case StatusFabABad:
			sum.FabABad++
		case StatusFabBBad:
			sum.FabBBad++
		case StatusBothBad:
			sum.BothBad++
		}
	}

	if sum.TotalHosts > 0 {
		sum.PercentageGood = int(math.Round(100 * float64(sum.Good) / float64(sum.TotalHosts)))
	}

	return sum
}
