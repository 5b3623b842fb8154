package twilio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// NumberType is the line type reported by the Lookup service.
type NumberType string

const (
	NumberLandline              NumberType = "landline"
	NumberMobile                NumberType = "mobile"
	NumberFixedVoip             NumberType = "fixedVoip"
	NumberNonFixedVoip          NumberType = "nonFixedVoip"
	NumberPersonal              NumberType = "personal"
	NumberTollFree              NumberType = "tollFree"
	NumberPremium               NumberType = "premium"
	NumberSharedCost            NumberType = "sharedCost"
	NumberUniversalAccessNumber NumberType = "uan"
	NumberVoicemail             NumberType = "voicemail"
	NumberPager                 NumberType = "pager"
	NumberUnknown               NumberType = "unknown"
)

var numberTypes = map[NumberType]bool{
	NumberLandline:              true,
	NumberMobile:                true,
	NumberFixedVoip:             true,
	NumberNonFixedVoip:          true,
	NumberPersonal:              true,
	NumberTollFree:              true,
	NumberPremium:               true,
	NumberSharedCost:            true,
	NumberUniversalAccessNumber: true,
	NumberVoicemail:             true,
	NumberPager:                 true,
	NumberUnknown:               true,
}

// UnmarshalJSON validates the wire value against the known number types.
func (n *NumberType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := NumberType(raw)
	if !numberTypes[parsed] {
		return ParsingError("unknown number type '" + raw + "'")
	}
	*n = parsed
	return nil
}

// ValidationError is one reason a looked-up number failed validation.
type ValidationError string

const (
	ValidationTooShort           ValidationError = "TOO_SHORT"
	ValidationTooLong            ValidationError = "TOO_LONG"
	ValidationInvalidButPossible ValidationError = "INVALID_BUT_POSSIBLE"
	ValidationInvalidCountryCode ValidationError = "INVALID_COUNTRY_CODE"
	ValidationInvalidLength      ValidationError = "INVALID_LENGTH"
	ValidationNotANumber         ValidationError = "NOT_A_NUMBER"
)

var validationErrors = map[ValidationError]bool{
	ValidationTooShort:           true,
	ValidationTooLong:            true,
	ValidationInvalidButPossible: true,
	ValidationInvalidCountryCode: true,
	ValidationInvalidLength:      true,
	ValidationNotANumber:         true,
}

// UnmarshalJSON validates the wire value against the known validation errors.
func (v *ValidationError) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := ValidationError(raw)
	if !validationErrors[parsed] {
		return ParsingError("unknown validation error '" + raw + "'")
	}
	*v = parsed
	return nil
}

// LineTypeIntelligence is the carrier/line-type block of a lookup result.
type LineTypeIntelligence struct {
	CarrierName       string     `json:"carrier_name"`
	ErrorCode         *int       `json:"error_code"`
	MobileCountryCode string     `json:"mobile_country_code"`
	MobileNetworkCode string     `json:"mobile_network_code"`
	Type              NumberType `json:"type"`
}

// PhoneNumberInfo is a Lookup v2 result.
type PhoneNumberInfo struct {
	CallingCountryCode   string                `json:"calling_country_code"`
	CountryCode          string                `json:"country_code"`
	LineTypeIntelligence *LineTypeIntelligence `json:"line_type_intelligence"`
	NationalFormat       string                `json:"national_format"`
	PhoneNumber          string                `json:"phone_number"`
	Valid                bool                  `json:"valid"`
	ValidationErrors     []ValidationError     `json:"validation_errors"`
}

// LookupPhoneNumber queries the Lookup service for a phone number with the
// line_type_intelligence field. The number is E.164; a missing leading '+'
// is added. Any 2xx status is accepted.
func (c *Client) LookupPhoneNumber(ctx context.Context, number string) (*PhoneNumberInfo, error) {
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	rawURL := c.lookupURL + "/v2/PhoneNumbers/" + url.PathEscape(number) + "?Fields=line_type_intelligence"

	var out PhoneNumberInfo
	if err := c.sendRequest(ctx, http.MethodGet, rawURL, nil, acceptSuccess, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
