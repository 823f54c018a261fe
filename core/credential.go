package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CredentialType enumerates the credential kinds the registry can issue.
type CredentialType string

const (
	CredentialTypeKYC                CredentialType = "kyc"
	CredentialTypeDAOMembership      CredentialType = "dao_membership"
	CredentialTypeCreditScore        CredentialType = "credit_score"
	CredentialTypeAgeVerification    CredentialType = "age_verification"
	CredentialTypeIncomeVerification CredentialType = "income_verification"
)

// Known reports whether t is one of the enumerated credential types.
func (t CredentialType) Known() bool {
	switch t {
	case CredentialTypeKYC, CredentialTypeDAOMembership, CredentialTypeCreditScore,
		CredentialTypeAgeVerification, CredentialTypeIncomeVerification:
		return true
	}
	return false
}

// AttributeKind discriminates the value held by an AttributeValue.
type AttributeKind int

const (
	AttributeString AttributeKind = iota
	AttributeNumber
	AttributeBool
)

// AttributeValue is a typed credential attribute value. Numeric values are
// exact decimals, not floats, so amounts and scores survive round-trips.
type AttributeValue struct {
	Kind AttributeKind
	Str  string
	Num  decimal.Decimal
	Bool bool
}

// StringAttribute returns a string-valued attribute.
func StringAttribute(s string) AttributeValue {
	return AttributeValue{Kind: AttributeString, Str: s}
}

// NumberAttribute returns a numeric attribute.
func NumberAttribute(d decimal.Decimal) AttributeValue {
	return AttributeValue{Kind: AttributeNumber, Num: d}
}

// BoolAttribute returns a boolean attribute.
func BoolAttribute(b bool) AttributeValue {
	return AttributeValue{Kind: AttributeBool, Bool: b}
}

// MarshalJSON encodes the attribute as its underlying JSON scalar.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AttributeString:
		return json.Marshal(v.Str)
	case AttributeNumber:
		return []byte(v.Num.String()), nil
	case AttributeBool:
		return json.Marshal(v.Bool)
	}
	return nil, fmt.Errorf("unknown attribute kind %d", v.Kind)
}

// UnmarshalJSON decodes a JSON scalar into a typed attribute.
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolAttribute(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringAttribute(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("attribute value must be a string, number or bool: %w", err)
	}
	*v = NumberAttribute(d)
	return nil
}

// Equal reports whether two attribute values are identical.
func (v AttributeValue) Equal(o AttributeValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case AttributeString:
		return v.Str == o.Str
	case AttributeNumber:
		return v.Num.Equal(o.Num)
	case AttributeBool:
		return v.Bool == o.Bool
	}
	return false
}

// Credential is a verifiable credential record. It is immutable once created;
// revocation removes it rather than mutating it.
type Credential struct {
	ID             string                    `json:"id"`
	Type           CredentialType            `json:"type"`
	Issuer         string                    `json:"issuer"`
	Subject        string                    `json:"subject"`
	IssuanceDate   time.Time                 `json:"issuanceDate"`
	ExpirationDate time.Time                 `json:"expirationDate"`
	Attributes     map[string]AttributeValue `json:"attributes"`
}

// Expired reports whether the credential's expiration has passed at now.
func (c *Credential) Expired(now time.Time) bool {
	return now.After(c.ExpirationDate)
}

// Clone returns a deep copy so stored records cannot be mutated through
// returned references.
func (c *Credential) Clone() *Credential {
	cp := *c
	cp.Attributes = make(map[string]AttributeValue, len(c.Attributes))
	for k, v := range c.Attributes {
		cp.Attributes[k] = v
	}
	return &cp
}

// Issuer is a trusted entity authorized to create credentials of specific
// types. The authorized-type set is enforced at issuance and never bypassed.
type Issuer struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	URL       string           `json:"url"`
	PublicKey common.Address   `json:"publicKey"`
	Types     []CredentialType `json:"types"`
}

// AuthorizedFor reports whether the issuer may issue credentials of type t.
func (i Issuer) AuthorizedFor(t CredentialType) bool {
	for _, allowed := range i.Types {
		if allowed == t {
			return true
		}
	}
	return false
}

// CredentialStatus is the outcome of a registry verification.
type CredentialStatus string

const (
	CredentialStatusValid            CredentialStatus = "valid"
	CredentialStatusNotFound         CredentialStatus = "not_found"
	CredentialStatusExpired          CredentialStatus = "expired"
	CredentialStatusSignatureInvalid CredentialStatus = "signature_invalid"
)

// VerificationResult is the structured result of CredentialRegistry.Verify.
// SignatureUnchecked is true when no issuer-signature verifier is configured,
// in which case the result only attests existence and temporal validity.
type VerificationResult struct {
	Status             CredentialStatus `json:"status"`
	Valid              bool             `json:"valid"`
	SignatureUnchecked bool             `json:"signature_unchecked"`
}
