package core

// forms.go defines the inspection checklists.
//
// Each form starts with location fields that walk the inventory hierarchy
// of its network. Their options come from an inventory.Cascade, so picking
// a region narrows exchanges, picking an exchange narrows MSANs, and so on.
// The remaining fields are the checklist itself.

import (
	"fmt"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// FieldKind is the input type of a form field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEnum
	FieldTextArea
)

func (k FieldKind) String() string {
	switch k {
	case FieldEnum:
		return "enum"
	case FieldTextArea:
		return "textarea"
	default:
		return "text"
	}
}

// MarshalText renders the kind as its name in JSON.
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FieldSpec defines one form field.
type FieldSpec struct {
	Name       string          `json:"name"`
	Label      string          `json:"label"`
	Kind       FieldKind       `json:"kind"`
	Required   bool            `json:"required"`
	EnumValues []string        `json:"enumValues,omitempty"`
	Default    string          `json:"default,omitempty"`
	Location   inventory.Field `json:"location,omitempty"` // inventory attribute for location fields
	Derived    bool            `json:"derived,omitempty"`  // filled from the inventory, not by the user
	MaxLength  int             `json:"maxLength,omitempty"`
}

// IsLocation reports whether the field selects part of the inventory hierarchy.
func (s FieldSpec) IsLocation() bool {
	return s.Location != "" && !s.Derived
}

// Form is the checklist for one inspection type.
type Form struct {
	Type   InspectionType `json:"type"`
	Title  string         `json:"title"`
	Fields []FieldSpec    `json:"fields"`
}

// FieldOptions is the option list for one location field.
type FieldOptions struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Selected string   `json:"selected"`
	Options  []string `json:"options"`
}

const notesMaxLength = 2000

var (
	yesNoNA   = []string{"Yes", "No", "NA"}
	yesNo     = []string{"Yes", "No"}
	visitEnum = []string{string(inventory.Done), string(inventory.Pending)}
	safety    = []string{"Safe", "Unsafe"}
	tidiness  = []string{"Organized", "Random"}
)

func location(name, label string, f inventory.Field) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: FieldEnum, Required: true, Location: f}
}

func enum(name, label string, required bool, values ...string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: FieldEnum, Required: required, EnumValues: values}
}

func textArea(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: FieldTextArea, MaxLength: notesMaxLength}
}

func visitStatus() FieldSpec {
	s := enum("visitStatus", "Visit Status", false, visitEnum...)
	s.Default = string(inventory.Done)
	return s
}

func ftthLocation() []FieldSpec {
	return []FieldSpec{
		location("sector", "Sector", inventory.FieldSector),
		location("region", "Region", inventory.FieldRegion),
		location("mainExchange", "Main Exchange", inventory.FieldMainExchange),
		location("subExchange", "Sub Exchange", inventory.FieldSubExchange),
		location("msanCode", "MSAN Code", inventory.FieldMSANCode),
		location("passiveCabinet", "Passive Cabinet", inventory.FieldCabinet),
	}
}

var forms = map[InspectionType]Form{
	InspectionTDM: {
		Type:  InspectionTDM,
		Title: "TDM Inspection",
		Fields: []FieldSpec{
			location("sector", "Sector", inventory.FieldSector),
			location("region", "Region", inventory.FieldRegion),
			location("exchangeName", "Exchange", inventory.FieldMainExchange),
			{Name: "exchangeCode", Label: "Exchange Code", Kind: FieldText, Location: inventory.FieldExchangeCode, Derived: true},
			location("msanCode", "MSAN Code", inventory.FieldMSANCode),
			location("cabinetNumber", "Copper Cabinet No.", inventory.FieldCabinet),
			location("boxNumber", "Box Number", inventory.FieldBoxNumber),
			visitStatus(),
			enum("riserGuard", "Cabinet Riser Guard", false, yesNoNA...),
			enum("properHeight", "Suitable Height", false, yesNoNA...),
			enum("boxCover", "Box Cover", true, yesNoNA...),
			enum("boxFixation", "Box Fixation", false, yesNoNA...),
			enum("combFixation", "Comb Fixation", false, yesNoNA...),
			enum("cableCombFixation", "Cable Fixation", false, yesNoNA...),
			enum("grounding", "Box Grounding", true, yesNoNA...),
			enum("numbering", "Numbering", false, yesNoNA...),
			enum("aerialConnections", "Aerial Connections", false, "Organized", "Messy"),
			enum("roadCrossing", "Road Crossing", false, safety...),
			enum("electricConflict", "Electric Conflict", false, "No", "Yes"),
			textArea("notes", "Notes"),
		},
	},
	InspectionFTTHCabinet: {
		Type:  InspectionFTTHCabinet,
		Title: "FTTH Cabinet Inspection",
		Fields: append(ftthLocation(),
			enum("cabinetStatus", "Cabinet Status", true, "Good", "Damaged"),
			enum("doorStatus", "Door Status", true, "Closed", "Broken"),
			enum("lockStatus", "Lock Status", false, "Secure", "Missing"),
			enum("cleanliness", "Cleanliness", false, "Clean", "Dirty"),
			enum("baseStatus", "Base Status", false, "Stable", "Unstable"),
			textArea("notes", "Notes"),
		),
	},
	InspectionFTTHBox: {
		Type:  InspectionFTTHBox,
		Title: "FTTH Box Inspection",
		Fields: append(ftthLocation(),
			location("boxNumber", "FTTH Box Number", inventory.FieldBoxNumber),
			visitStatus(),
			enum("dropWirePath", "Drop Wire Path", false, "Good", "Cut"),
			enum("rings", "Rings", false, yesNo...),
			enum("riserStatus", "Box Riser Status", false, yesNo...),
			enum("customerRiser", "Customer Riser", false, yesNo...),
			enum("boxCover", "Box Cover", true, "Good", "Bad"),
			enum("numbering", "Numbering", false, yesNo...),
			enum("boxFixation", "Box Fixation", false, "Good", "Loose"),
			enum("properHeight", "Proper Height", false, yesNo...),
			enum("roadCrossing", "Road Crossing", false, safety...),
			enum("logo", "TE Logo", false, yesNo...),
			enum("externalConnections", "External Connections", false, tidiness...),
			enum("internalConnections", "Internal Connections", false, tidiness...),
			textArea("otherProblems", "Other Problems"),
			textArea("violationReason", "Violation Reason"),
			textArea("notes", "Notes"),
		),
	},
}

// FormFor returns the form for an inspection type.
func FormFor(t InspectionType) (Form, error) {
	f, ok := forms[t]
	if !ok {
		return Form{}, fmt.Errorf("%w %q", ErrUnknownInspectionType, t)
	}
	return f, nil
}

// Forms returns every form in a stable order.
func Forms() []Form {
	return []Form{forms[InspectionTDM], forms[InspectionFTTHCabinet], forms[InspectionFTTHBox]}
}

// Network is the inventory network the form inspects.
func (f Form) Network() inventory.Network {
	return f.Type.Network()
}

// Field looks up a field by name.
func (f Form) Field(name string) (FieldSpec, bool) {
	for _, s := range f.Fields {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// LocationFields returns the user-selected location fields, outermost first.
func (f Form) LocationFields() []FieldSpec {
	var out []FieldSpec
	for _, s := range f.Fields {
		if s.IsLocation() {
			out = append(out, s)
		}
	}
	return out
}

// Cascade returns an empty cascade over the form's location hierarchy.
func (f Form) Cascade() *inventory.Cascade {
	loc := f.LocationFields()
	levels := make([]inventory.Field, len(loc))
	for i, s := range loc {
		levels[i] = s.Location
	}
	return inventory.NewCascade(levels...)
}

// Options returns the option list for each location field given the
// selections in data. Selections that no longer fit are dropped.
func (f Form) Options(data map[string]string, items []inventory.Item) []FieldOptions {
	c := f.Cascade()
	loc := f.LocationFields()
	for _, s := range loc {
		if v := data[s.Name]; v != "" {
			_ = c.Select(s.Location, v)
		}
	}
	c.Normalize(items)

	levels := c.AllOptions(items)
	out := make([]FieldOptions, len(loc))
	for i, s := range loc {
		out[i] = FieldOptions{
			Name:     s.Name,
			Label:    s.Label,
			Selected: levels[i].Selected,
			Options:  levels[i].Options,
		}
	}
	return out
}

// VisitKey returns the box a submission marks as visited, or nil when the
// submission changes no visit status. Cabinet inspections never do, and a
// box inspection recorded as Pending leaves the inventory alone.
func (f Form) VisitKey(data map[string]string) *inventory.BoxKey {
	if data["visitStatus"] == string(inventory.Pending) {
		return nil
	}
	switch f.Type {
	case InspectionTDM:
		return &inventory.BoxKey{
			Network:   inventory.TDM,
			MSANCode:  data["msanCode"],
			Cabinet:   data["cabinetNumber"],
			BoxNumber: data["boxNumber"],
		}
	case InspectionFTTHBox:
		return &inventory.BoxKey{
			Network:   inventory.FTTH,
			Cabinet:   data["passiveCabinet"],
			BoxNumber: data["boxNumber"],
		}
	}
	return nil
}
