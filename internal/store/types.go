// Package store performs CRUD and reconciliation against SSM Parameter
// Store through a narrow client interface.
package store

import "time"

// Kind is the parameter type understood by the store.
type Kind string

const (
	KindString       Kind = "String"
	KindStringList   Kind = "StringList"
	KindSecureString Kind = "SecureString"
)

// Tier is the parameter storage class.
type Tier string

const (
	TierStandard           Tier = "Standard"
	TierAdvanced           Tier = "Advanced"
	TierIntelligentTiering Tier = "Intelligent-Tiering"
)

// ValueUnavailable marks a listed parameter whose value could not be
// fetched. Partial results are preferable to failing the whole scan.
const ValueUnavailable = "N/A"

// ParseKind maps a free-form type string to a Kind. Unrecognized input
// falls back to String; ok is false so the caller can warn. An empty
// string is the silent default.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case "":
		return KindString, true
	case KindString, KindStringList, KindSecureString:
		return Kind(s), true
	default:
		return KindString, false
	}
}

// ParseTier maps a free-form tier string to a Tier, falling back to
// Standard with ok=false for unrecognized input.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case "":
		return TierStandard, true
	case TierStandard, TierAdvanced, TierIntelligentTiering:
		return Tier(s), true
	default:
		return TierStandard, false
	}
}

// Parameter is one named entry in the store. Version and LastModified
// are assigned by the remote side and read-only to the client.
type Parameter struct {
	Name         string
	Value        string
	Kind         Kind
	Tier         Tier
	KeyID        string
	Description  string
	Version      int64
	LastModified time.Time
}
