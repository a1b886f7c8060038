package enums

import "fmt"

// ProofKind describes what a buyer uploaded as proof of payment.
type ProofKind string

const (
	ProofKindPhoto    ProofKind = "photo"
	ProofKindDocument ProofKind = "document"
)

var validProofKinds = []ProofKind{
	ProofKindPhoto,
	ProofKindDocument,
}

// String implements fmt.Stringer.
func (p ProofKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProofKind.
func (p ProofKind) IsValid() bool {
	for _, candidate := range validProofKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProofKind converts raw input into a ProofKind.
func ParseProofKind(value string) (ProofKind, error) {
	for _, candidate := range validProofKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid proof kind %q", value)
}
