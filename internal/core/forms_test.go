package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

var ftthItems = []inventory.Item{
	{ID: "a", Network: inventory.FTTH, Sector: "S", Region: "R", MainExchange: "M", SubExchange: "Sub",
		ExchangeCode: "EC", MSANCode: "", Cabinet: "CAB-1", BoxNumber: "1"},
	{ID: "b", Network: inventory.FTTH, Sector: "S", Region: "R", MainExchange: "M", SubExchange: "Sub",
		ExchangeCode: "EC", MSANCode: "", Cabinet: "CAB-1", BoxNumber: "2"},
	{ID: "c", Network: inventory.FTTH, Sector: "S", Region: "R2", MainExchange: "M2", SubExchange: "Sub2",
		ExchangeCode: "EC2", MSANCode: "07-1", Cabinet: "CAB-2", BoxNumber: "1"},
}

func TestFormFor(t *testing.T) {
	for _, f := range Forms() {
		got, err := FormFor(f.Type)
		if err != nil {
			t.Fatalf("FormFor(%s) error = %v", f.Type, err)
		}
		if got.Title == "" || len(got.Fields) == 0 {
			t.Errorf("FormFor(%s) returned an empty form", f.Type)
		}
		if got.Fields[0].Name != "sector" {
			t.Errorf("FormFor(%s) first field = %q, want sector", f.Type, got.Fields[0].Name)
		}
	}
	if _, err := FormFor("COAX"); err == nil {
		t.Error("FormFor(COAX) expected error")
	}
}

func TestLocationFields(t *testing.T) {
	tests := []struct {
		typ  InspectionType
		want []string
	}{
		{InspectionTDM, []string{"sector", "region", "exchangeName", "msanCode", "cabinetNumber", "boxNumber"}},
		{InspectionFTTHCabinet, []string{"sector", "region", "mainExchange", "subExchange", "msanCode", "passiveCabinet"}},
		{InspectionFTTHBox, []string{"sector", "region", "mainExchange", "subExchange", "msanCode", "passiveCabinet", "boxNumber"}},
	}
	for _, tt := range tests {
		f, _ := FormFor(tt.typ)
		var got []string
		for _, s := range f.LocationFields() {
			got = append(got, s.Name)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s LocationFields() mismatch (-want +got):\n%s", tt.typ, diff)
		}
	}
}

func TestVisitKey(t *testing.T) {
	tdm, _ := FormFor(InspectionTDM)
	box, _ := FormFor(InspectionFTTHBox)
	cab, _ := FormFor(InspectionFTTHCabinet)

	tests := []struct {
		name string
		form Form
		data map[string]string
		want *inventory.BoxKey
	}{
		{"tdm", tdm, map[string]string{"msanCode": "m", "cabinetNumber": "c", "boxNumber": "b", "visitStatus": "Done"},
			&inventory.BoxKey{Network: inventory.TDM, MSANCode: "m", Cabinet: "c", BoxNumber: "b"}},
		{"tdm pending", tdm, map[string]string{"msanCode": "m", "cabinetNumber": "c", "boxNumber": "b", "visitStatus": "Pending"}, nil},
		{"ftth box ignores msan", box, map[string]string{"msanCode": "m", "passiveCabinet": "p", "boxNumber": "b", "visitStatus": "Done"},
			&inventory.BoxKey{Network: inventory.FTTH, Cabinet: "p", BoxNumber: "b"}},
		{"ftth box pending", box, map[string]string{"passiveCabinet": "p", "boxNumber": "b", "visitStatus": "Pending"}, nil},
		{"cabinet", cab, map[string]string{"passiveCabinet": "p"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.form.VisitKey(tt.data)); diff != "" {
				t.Errorf("VisitKey() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_FillsDefaultsAndDerived(t *testing.T) {
	f, _ := FormFor(InspectionFTTHBox)
	got, err := f.Validate(map[string]string{
		"sector":         "S",
		"region":         "R",
		"mainExchange":   "M",
		"subExchange":    "Sub",
		"passiveCabinet": "CAB-1",
		"boxNumber":      " 2 ",
		"boxCover":       "Good",
	}, ftthItems)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got["boxNumber"] != "2" {
		t.Errorf("boxNumber = %q, want trimmed %q", got["boxNumber"], "2")
	}
	if got["visitStatus"] != "Done" {
		t.Errorf("visitStatus = %q, want default Done", got["visitStatus"])
	}
	if got["msanCode"] != "" {
		t.Errorf("msanCode = %q, want empty", got["msanCode"])
	}
}

func TestValidate_Errors(t *testing.T) {
	f, _ := FormFor(InspectionFTTHCabinet)
	base := func() map[string]string {
		return map[string]string{
			"sector": "S", "region": "R2", "mainExchange": "M2", "subExchange": "Sub2",
			"msanCode": "07-1", "passiveCabinet": "CAB-2",
			"cabinetStatus": "Good", "doorStatus": "Closed",
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]string)
		want   []string
	}{
		{"valid", func(map[string]string) {}, nil},
		{"msan required when offered", func(d map[string]string) { delete(d, "msanCode") }, []string{"msanCode"}},
		{"cross-branch value", func(d map[string]string) { d["passiveCabinet"] = "CAB-1" }, []string{"passiveCabinet"}},
		{"required and enum", func(d map[string]string) {
			delete(d, "cabinetStatus")
			d["doorStatus"] = "Ajar"
		}, []string{"cabinetStatus", "doorStatus"}},
		{"unknown", func(d map[string]string) { d["zzz"] = "1" }, []string{"zzz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := base()
			tt.mutate(data)
			_, err := f.Validate(data, ftthItems)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			errs, ok := err.(ValidationErrors)
			if !ok {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			for _, field := range tt.want {
				if _, ok := errs.Fields()[field]; !ok {
					t.Errorf("Validate() errors %v missing field %s", errs.Fields(), field)
				}
			}
		})
	}
}

func TestValidate_MixedMSANSubExchange(t *testing.T) {
	items := []inventory.Item{
		{ID: "x", Network: inventory.FTTH, Sector: "S", Region: "R", MainExchange: "M", SubExchange: "Sub",
			MSANCode: "07-1", Cabinet: "CAB1", BoxNumber: "1"},
		{ID: "y", Network: inventory.FTTH, Sector: "S", Region: "R", MainExchange: "M", SubExchange: "Sub",
			MSANCode: "", Cabinet: "CAB2", BoxNumber: "2"},
	}
	f, _ := FormFor(InspectionFTTHBox)
	data := func(msan, cabinet, box string) map[string]string {
		return map[string]string{
			"sector": "S", "region": "R", "mainExchange": "M", "subExchange": "Sub",
			"msanCode": msan, "passiveCabinet": cabinet, "boxNumber": box, "boxCover": "Good",
		}
	}

	if _, err := f.Validate(data("", "CAB2", "2"), items); err != nil {
		t.Errorf("box without MSAN: Validate() error = %v", err)
	}
	if _, err := f.Validate(data("07-1", "CAB1", "1"), items); err != nil {
		t.Errorf("box with MSAN: Validate() error = %v", err)
	}

	_, err := f.Validate(data("", "CAB1", "1"), items)
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("empty MSAN on a box that has one: error = %v, want ValidationErrors", err)
	}
	if _, ok := errs.Fields()["passiveCabinet"]; !ok {
		t.Errorf("Validate() errors %v missing field passiveCabinet", errs.Fields())
	}
}

func TestFormOptions_EmptyInventory(t *testing.T) {
	f, _ := FormFor(InspectionTDM)
	for _, o := range f.Options(nil, nil) {
		if o.Options == nil {
			t.Errorf("Options for %s is nil, want empty list", o.Name)
		}
	}
}
