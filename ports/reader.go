package ports

import (
	"ocev/domain/evidence"
)

// EvidenceReaderPort derives normalized evidence records from tabular
// input (CSV or spreadsheet data). The derivation is a collaborator
// concern; the core pipeline only consumes the resulting records.
type EvidenceReaderPort interface {
	ReadRecords(path string, testType evidence.TestType) ([]evidence.Record, error)
}
