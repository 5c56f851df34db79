package domain

// Kind is the element type of a parameter array.
type Kind int

const (
	KindTime Kind = iota
	KindFloat64
	KindFloat32
)

// Physical constants shared by the providers.
const (
	// DefaultIceDensity is used wherever a provider does not report ice density.
	DefaultIceDensity float32 = 920.0

	// WaterDensity is the sea water density assumed by both providers.
	WaterDensity float32 = 1024.0

	// FillValue marks physical parameters a file did not carry.
	FillValue float32 = -9999.0
)

// Parameter names as they appear in record sets, JSON output, and quickviews.
const (
	ParamTimestamp       = "timestamp"
	ParamLongitude       = "longitude"
	ParamLatitude        = "latitude"
	ParamIceDensity      = "ice_density"
	ParamSnowDensity     = "snow_density"
	ParamSnowDepth       = "snow_depth"
	ParamSeaIceThickness = "sea_ice_thickness"
)

// Parameter describes one array of the record-set schema.
type Parameter struct {
	Name    string
	Kind    Kind
	Unit    string
	Default float32 // fill for float32 parameters a source does not report
}

// Parameters is the record-set schema in canonical order.
var Parameters = []Parameter{
	{Name: ParamTimestamp, Kind: KindTime},
	{Name: ParamLongitude, Kind: KindFloat64, Unit: "degrees_east"},
	{Name: ParamLatitude, Kind: KindFloat64, Unit: "degrees_north"},
	{Name: ParamIceDensity, Kind: KindFloat32, Unit: "kg m-3", Default: DefaultIceDensity},
	{Name: ParamSnowDensity, Kind: KindFloat32, Unit: "kg m-3", Default: FillValue},
	{Name: ParamSnowDepth, Kind: KindFloat32, Unit: "m", Default: FillValue},
	{Name: ParamSeaIceThickness, Kind: KindFloat32, Unit: "m", Default: FillValue},
}

// LookupParameter returns the schema entry for name.
func LookupParameter(name string) (Parameter, bool) {
	for _, p := range Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Source identifies a data provider and which of its parameters are fixed
// rather than measured.
type Source struct {
	ID               string
	LongName         string
	IceDensityFixed  bool
	SnowDensityFixed bool
}

var (
	SourceAWI     = Source{ID: "awi", LongName: "AWI"}
	SourceNASAJPL = Source{ID: "nasa_jpl", LongName: "NASA-JPL", IceDensityFixed: true}
)

// LookupSource resolves a source id such as "awi" or "nasa_jpl".
func LookupSource(id string) (Source, bool) {
	switch id {
	case SourceAWI.ID:
		return SourceAWI, true
	case SourceNASAJPL.ID:
		return SourceNASAJPL, true
	default:
		return Source{}, false
	}
}
