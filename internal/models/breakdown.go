package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryStat is one bucket of the per-category breakdown. Revenue
// serializes as an exact decimal string, so the JSONB column and the cache
// snapshot round-trip without precision loss.
type CategoryStat struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type CategoryBreakdown map[string]CategoryStat

func (b *CategoryBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = make(CategoryBreakdown)
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, b)
}

func (b CategoryBreakdown) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "{}", nil
	}
	return json.Marshal(b)
}

// GeoStat is one bucket of the geographic breakdown, keyed by city.
type GeoStat struct {
	Transactions int `json:"transactions"`
	Users        int `json:"users"`
}

type GeoBreakdown map[string]GeoStat

func (b *GeoBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = make(GeoBreakdown)
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, b)
}

func (b GeoBreakdown) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "{}", nil
	}
	return json.Marshal(b)
}

// TopCategory is one ranked entry of the top-categories list.
type TopCategory struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type TopCategoryList []TopCategory

func (l *TopCategoryList) Scan(value interface{}) error {
	if value == nil {
		*l = TopCategoryList{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, l)
}

func (l TopCategoryList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// TopPartner is one ranked entry of the top-partners list. Name is the
// partner's display name at aggregation time, carried so dashboard reads
// don't need a join.
type TopPartner struct {
	PartnerID string          `json:"partner_id"`
	Name      string          `json:"name"`
	Count     int             `json:"count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type TopPartnerList []TopPartner

func (l *TopPartnerList) Scan(value interface{}) error {
	if value == nil {
		*l = TopPartnerList{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, l)
}

func (l TopPartnerList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// IntList stores small integer sets (peak hours) as a JSON array.
type IntList []int

func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = IntList{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, l)
}

func (l IntList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}
}
