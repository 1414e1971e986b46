package data

// DimensionType is the value type of a dimension.
type DimensionType string

// Dimension types.
const (
	TypeNumber  DimensionType = "number"
	TypeFloat   DimensionType = "float"
	TypeInt     DimensionType = "int"
	TypeOrdinal DimensionType = "ordinal"
	TypeTime    DimensionType = "time"
)

// DimensionRole tags dimensions that are synthesized by the library rather
// than bound to user data.
type DimensionRole int

const (
	RoleData DimensionRole = iota
	RoleStackResult
	RoleStackedOver
)

func (r DimensionRole) String() string {
	switch r {
	case RoleStackResult:
		return "stackResult"
	case RoleStackedOver:
		return "stackedOver"
	}
	return "data"
}

// Auxiliary (non-coordinate) roles a dimension can take through encode.
const (
	OtherTooltip    = "tooltip"
	OtherLabel      = "label"
	OtherItemName   = "itemName"
	OtherItemID     = "itemId"
	OtherSeriesName = "seriesName"
)

// IsOtherDimension reports whether an encode key names an auxiliary role
// instead of a coordinate dimension.
func IsOtherDimension(name string) bool {
	switch name {
	case OtherTooltip, OtherLabel, OtherItemName, OtherItemID, OtherSeriesName:
		return true
	}
	return false
}

// DimensionDefine is a user-declared dimension as found in `dimensions`
// options or detected from a source header.
type DimensionDefine struct {
	Name        string        `json:"name,omitempty"`
	Type        DimensionType `json:"type,omitempty"`
	DisplayName string        `json:"displayName,omitempty"`
	// HasName is false for a declared slot without a name, e.g. a null entry.
	HasName bool `json:"-"`
}

// DimensionInfo is a fully resolved dimension descriptor.
type DimensionInfo struct {
	Name          string         `json:"name"`
	DisplayName   string         `json:"displayName,omitempty"`
	CoordDim      string         `json:"coordDim"`
	CoordDimIndex int            `json:"coordDimIndex"`
	Type          DimensionType  `json:"type,omitempty"`
	OtherDims     map[string]int `json:"otherDims"`
	OrdinalMeta   *OrdinalMeta   `json:"-"`

	// IsExtraCoord marks dimensions that no coordinate system asked for.
	IsExtraCoord bool `json:"isExtraCoord,omitempty"`
	// IsSysCoord marks dimensions bound to a system-required coordDim.
	IsSysCoord bool `json:"isSysCoord,omitempty"`
	// IsCalculationCoord marks dimensions whose values are computed.
	IsCalculationCoord bool `json:"isCalculationCoord,omitempty"`
	// CreateInvertedIndices asks the List to index values of this
	// dimension for value to index lookup.
	CreateInvertedIndices bool          `json:"-"`
	Role                  DimensionRole `json:"role,omitempty"`

	hasName     bool
	hasCoordDim bool
}

func newDimensionInfo() *DimensionInfo {
	return &DimensionInfo{OtherDims: make(map[string]int)}
}

// IsOrdinal reports whether the dimension holds category ordinals.
func (d *DimensionInfo) IsOrdinal() bool {
	return d.Type == TypeOrdinal
}

// SysDim describes a dimension that a coordinate system or series requires,
// such as "x" or "value".
type SysDim struct {
	Name        string
	Type        DimensionType
	OrdinalMeta *OrdinalMeta
	// DimsDef gives default names for a coordDim spanning several data
	// dimensions, e.g. open/close/lowest/highest.
	DimsDef   []string
	OtherDims map[string]int
}

// SysDims converts plain names into SysDim values.
func SysDims(names ...string) []SysDim {
	out := make([]SysDim, len(names))
	for i, n := range names {
		out[i] = SysDim{Name: n}
	}
	return out
}
