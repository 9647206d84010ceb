package zoning

import "strings"

// Fabric identifies one of the two redundant fabric paths a host is zoned
// into. Exports occasionally carry other values; those rows are kept but
// never counted towards validation.
type Fabric string

// Define the fabrics.
const (
	FabricA Fabric = "A"
	FabricB Fabric = "B"
)

// Recognized returns whether the fabric is one of the two that participate
// in validation.
func (f Fabric) Recognized() bool {
	return f == FabricA || f == FabricB
}

// String returns the string representation of the fabric.
func (f Fabric) String() string {
	return string(f)
}

// ParseFabric normalizes a raw fabric cell value to a Fabric. Surrounding
// whitespace and casing are not significant in the exports we see.
func ParseFabric(s string) Fabric {
	return Fabric(strings.ToUpper(strings.TrimSpace(s)))
}

// RawRow is a single zoning/login table entry, one per member-WWN-to-alias
// binding. Vendor, ZoneName and PortIndex are descriptive pass-through
// fields and are never validated.
type RawRow struct {
	Fabric    Fabric `json:"fabric"`
	Alias     string `json:"alias"`
	MemberWWN string `json:"memberWwn"`
	LoggedIn  bool   `json:"loggedIn"`
	Vendor    string `json:"vendor,omitempty"`
	ZoneName  string `json:"zoneName,omitempty"`
	PortIndex string `json:"portIndex,omitempty"`
}

// RowKey is the composite identity of a row. Two rows with an equal key are
// the same observation regardless of their other fields.
type RowKey struct {
	Fabric    Fabric
	Alias     string
	MemberWWN string
}

// Key returns the dedup identity of the row.
func (r RawRow) Key() RowKey {
	return RowKey{
		Fabric:    r.Fabric,
		Alias:     r.Alias,
		MemberWWN: r.MemberWWN,
	}
}

// HostName derives the host identity from a port alias by stripping the
// text after, and including, the last underscore. An alias without an
// underscore is its own host name.
//
// Aliases that use underscores as internal separators rather than as a
// port-suffix delimiter will be misclassified by this rule. That is a known
// limitation of the naming convention, kept as-is for compatibility with
// the existing exports.
func HostName(alias string) string {
	if idx := strings.LastIndex(alias, "_"); idx >= 0 {
		return alias[:idx]
	}

	return alias
}
