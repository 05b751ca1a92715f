package inventory

// Field names an inventory attribute that can take part in a filter
// hierarchy.
type Field string

const (
	FieldSector       Field = "sector"
	FieldRegion       Field = "region"
	FieldMainExchange Field = "mainExchange"
	FieldSubExchange  Field = "subExchange"
	FieldExchangeCode Field = "exchangeCode"
	FieldMSANCode     Field = "msanCode"
	FieldCabinet      Field = "cabinet"
	FieldBoxNumber    Field = "boxNumber"
	FieldBoxCapacity  Field = "boxCapacity"
	FieldVisitStatus  Field = "visitStatus"
)

var fieldLabels = map[Field]string{
	FieldSector:       "Sector",
	FieldRegion:       "Region",
	FieldMainExchange: "Main Exchange",
	FieldSubExchange:  "Sub Exchange",
	FieldExchangeCode: "Exchange Code",
	FieldMSANCode:     "MSAN Code",
	FieldCabinet:      "Cabinet",
	FieldBoxNumber:    "Box Number",
	FieldBoxCapacity:  "Box Capacity",
	FieldVisitStatus:  "Status",
}

// ParseField returns the field for a query parameter name.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	_, ok := fieldLabels[f]
	return f, ok
}

// Label is the human readable column name.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Value extracts the field from an item. Unknown fields yield "".
func (f Field) Value(it Item) string {
	switch f {
	case FieldSector:
		return it.Sector
	case FieldRegion:
		return it.Region
	case FieldMainExchange:
		return it.MainExchange
	case FieldSubExchange:
		return it.SubExchange
	case FieldExchangeCode:
		return it.ExchangeCode
	case FieldMSANCode:
		return it.MSANCode
	case FieldCabinet:
		return it.Cabinet
	case FieldBoxNumber:
		return it.BoxNumber
	case FieldBoxCapacity:
		return it.BoxCapacity
	case FieldVisitStatus:
		return string(it.VisitStatus)
	}
	return ""
}
