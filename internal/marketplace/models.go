package marketplace

import "time"

// CreditType classifies the project category behind a credit.
type CreditType string

const (
	CreditRenewable  CreditType = "renewable"
	CreditForestry   CreditType = "forestry"
	CreditMethane    CreditType = "methane"
	CreditEfficiency CreditType = "efficiency"
)

// ValidCreditType reports whether t is a member of the closed enumeration.
func ValidCreditType(t CreditType) bool {
	switch t {
	case CreditRenewable, CreditForestry, CreditMethane, CreditEfficiency:
		return true
	}
	return false
}

// Certification names the body that certified a credit.
type Certification string

const (
	CertGold     Certification = "gold"
	CertVerra    Certification = "verra"
	CertAmerican Certification = "american"
)

// ValidCertification reports whether c is a member of the closed enumeration.
func ValidCertification(c Certification) bool {
	switch c {
	case CertGold, CertVerra, CertAmerican:
		return true
	}
	return false
}

// CarbonCredit is a certified, metadata-rich offset listing. Once IsActive
// turns false the record is immutable and excluded from listings; it is
// never deleted, for audit continuity.
type CarbonCredit struct {
	ID            uint64        `json:"id"`
	Seller        string        `json:"seller"`
	Amount        float64       `json:"amount"`
	PricePerUnit  float64       `json:"price_per_unit"`
	CreditType    CreditType    `json:"credit_type"`
	Certification Certification `json:"certification"`
	ProjectName   string        `json:"project_name"`
	VintageYear   int           `json:"vintage_year"`
	Description   string        `json:"description"`
	CreatedAt     time.Time     `json:"creation_time"`
	IsActive      bool          `json:"is_active"`
}
