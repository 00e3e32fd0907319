package extract

// canonicalNames maps authoring-time field names from the extraction
// config to the canonical names of the persisted lead/submission schema.
// The map is forward-only and intentionally not a bijection: several
// authoring configurations may target the same canonical field.
var canonicalNames = map[string]string{
	"businessName":       "legalBusinessName",
	"dbaName":            "doingBusinessAs",
	"fein":               "taxID",
	"taxId":              "taxID",
	"businessAddress":    "mailingAddress",
	"contactName":        "primaryContactName",
	"contactEmail":       "primaryContactEmail",
	"contactPhone":       "primaryContactPhone",
	"annualSales":        "annualRevenue",
	"yearsInOperation":   "yearsInBusiness",
	"employeeCount":      "numberOfEmployees",
	"policyNo":           "policyNumber",
	"carrier":            "carrierName",
	"effectiveDate":      "policyEffectiveDate",
	"expirationDate":     "policyExpirationDate",
	"premium":            "annualPremium",
	"coinsurance":        "coinsurancePercent",
	"deductible":         "deductibleAmount",
	"buildingLimit":      "buildingCoverageLimit",
	"contentsLimit":      "contentsCoverageLimit",
	"totalLosses":        "totalIncurredLosses",
	"claimCount":         "numberOfClaims",
	"requestedLoan":      "requestedLoanAmount",
	"monthlyRevenue":     "averageMonthlyRevenue",
	"outstandingBalance": "existingDebtBalance",
}

// ToCanonical translates an authoring field name to its canonical
// persisted name. Unmapped names pass through unchanged.
func ToCanonical(authoringName string) string {
	if canonical, ok := canonicalNames[authoringName]; ok {
		return canonical
	}
	return authoringName
}
