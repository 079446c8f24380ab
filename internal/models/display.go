package models

import "encoding/json"

// NotAvailable is what an absent display field reads as.
const NotAvailable = "NA"

type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Field is an optional display value.
type Field struct {
	value string
	set   bool
}

func Text(v string) Field {
	return Field{value: v, set: true}
}

func (f Field) Present() bool {
	return f.set
}

func (f Field) String() string {
	if !f.set {
		return NotAvailable
	}
	return f.value
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

type DisplayModel struct {
	Status          Status `json:"status"`
	CityName        Field  `json:"city_name"`
	Temperature     Field  `json:"temperature"`
	Description     Field  `json:"description"`
	HighTemperature Field  `json:"high_temperature"`
	LowTemperature  Field  `json:"low_temperature"`
	FeelsLike       Field  `json:"feels_like"`
	Pressure        Field  `json:"pressure"`
	Wind            Field  `json:"wind"`
}

// FailedDisplay is the model shown when no usable data exists; every field reads as NA.
func FailedDisplay() DisplayModel {
	return DisplayModel{Status: StatusFailed}
}

func (m DisplayModel) Failed() bool {
	return m.Status == StatusFailed
}

// Icon is the image published for the current display.
type Icon struct {
	Code string
	Data []byte
}
