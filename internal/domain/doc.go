// Package domain models orbit-level sea-ice thickness record sets.
//
// # Data Sources
//
// Two providers deliver one file per CryoSat-2 orbit (or track):
//
//	AWI       binary, 106-byte header + fixed-stride float64 records.
//	          Field layout is declared by 45 content flags in the header and an
//	          external field-definition file (see package fielddef).
//	NASA-JPL  ASCII, three header lines followed by whitespace-delimited rows:
//	          year, day-of-year, seconds-of-day, lat, lon, thickness,
//	          snow depth, snow density.
//
// Both parsers produce an [OrbitThicknessRecordSet]; downstream code never needs
// to know which format a record set came from beyond its SourceID.
//
// # Parameters
//
// Every record set carries the same seven parallel arrays, listed in
// [Parameters]. A provider that does not measure a parameter still gets the
// array, filled with the parameter's default:
//
//	ice_density   920 kg/m³ ([DefaultIceDensity]); NASA-JPL fixes it.
//	other physics [FillValue] (-9999) when absent from an AWI file.
//
// Positions (timestamp, longitude, latitude) have no default. A file that does
// not carry them is rejected with a [ConfigurationError].
//
// # Record count
//
// The record count is never stored. [OrbitThicknessRecordSet.NRecords] is
// len(Longitude), and [OrbitThicknessRecordSet.Validate] checks that every
// other array agrees.
//
// # Errors
//
//	ReadError           file missing, unreadable, or shorter than its layout.
//	ParseError          readable file with malformed content.
//	ConfigurationError  field definition or header flags cannot describe the file.
//
// Parsers never return a partially filled record set alongside an error.
package domain
