package domain

// RecordSetParser decodes one provider file into a record set.
type RecordSetParser interface {
	ParseFile(path string) (*OrbitThicknessRecordSet, error)
}
