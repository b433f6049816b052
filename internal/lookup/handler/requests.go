package handler

import (
	"strings"

	"sigilo/internal/patient"
	id "sigilo/pkg/domain"
	dErrors "sigilo/pkg/domain-errors"
)

// minNameSearchLen keeps name searches from sweeping whole tenants.
const minNameSearchLen = 3

// SearchRequest is the disclosure search body. Validate parses the raw
// fields into their domain types; handlers only touch the parsed values.
type SearchRequest struct {
	SearchType      string `json:"search_type"`
	SearchValue     string `json:"search_value"`
	Purpose         string `json:"purpose"`
	ConsentRequired *bool  `json:"consent_required,omitempty"`

	// Populated by Validate.
	ParsedType            patient.SearchType `json:"-"`
	ParsedTerm            string             `json:"-"`
	ParsedPurpose         id.Purpose         `json:"-"`
	ParsedConsentRequired bool               `json:"-"`
}

func (r *SearchRequest) Validate() error {
	searchType, err := patient.ParseSearchType(r.SearchType)
	if err != nil {
		return err
	}
	r.ParsedType = searchType

	switch searchType {
	case patient.SearchByCPF:
		ident, err := id.ParseCPF(r.SearchValue)
		if err != nil {
			return err
		}
		r.ParsedTerm = ident.Digits()
	case patient.SearchByCNS:
		ident, err := id.ParseCNS(r.SearchValue)
		if err != nil {
			return err
		}
		r.ParsedTerm = ident.Digits()
	case patient.SearchByName:
		name := strings.TrimSpace(r.SearchValue)
		if len(name) < minNameSearchLen {
			return dErrors.New(dErrors.CodeValidation, "name search needs at least 3 characters")
		}
		r.ParsedTerm = name
	}

	purpose, err := id.ParsePurpose(r.Purpose)
	if err != nil {
		return err
	}
	r.ParsedPurpose = purpose

	r.ParsedConsentRequired = true
	if r.ConsentRequired != nil {
		r.ParsedConsentRequired = *r.ConsentRequired
	}
	return nil
}
