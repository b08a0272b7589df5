package types

import "fmt"

// ResultStatus is the acknowledgement returned by the case service for a mutation
type ResultStatus string

const (
	ResultSaved    ResultStatus = "saved"
	ResultUploaded ResultStatus = "uploaded"
)

// IsValid checks if the result status is a known acknowledgement
func (s ResultStatus) IsValid() bool {
	switch s {
	case ResultSaved,
		ResultUploaded:
		return true
	default:
		return false
	}
}

func (s ResultStatus) String() string {
	return string(s)
}

// ParseResultStatus parses a string into a ResultStatus
func ParseResultStatus(s string) (ResultStatus, error) {
	status := ResultStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid result status: %s", s)
	}
	return status, nil
}
