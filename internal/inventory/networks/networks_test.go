package networks

import (
	"testing"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

func TestRegistered(t *testing.T) {
	for _, key := range []string{"tdm", "FTTH"} {
		def, err := inventory.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", key, err)
		}
		if len(def.Headers()) != len(def.Columns) {
			t.Errorf("%s: headers/columns mismatch", key)
		}
		if len(def.Hierarchy) != 7 {
			t.Errorf("%s: hierarchy depth = %d, want 7", key, len(def.Hierarchy))
		}
	}
}

func TestFTTHRow(t *testing.T) {
	def, _ := inventory.Get(inventory.FTTH)
	row := def.Row(inventory.Item{
		Sector: "Suez Sector", Region: "Suez Telephones Zone", MainExchange: "Faisal",
		SubExchange: "Faisal", ExchangeCode: "FYSSZ", MSANCode: "14-1-02-900",
		Cabinet: "EL GALAA", BoxCapacity: "36", BoxNumber: "BOX1", VisitStatus: inventory.Done,
	})
	want := []string{"Suez Sector", "Suez Telephones Zone", "Faisal", "Faisal", "FYSSZ", "14-1-02-900", "EL GALAA", "36", "BOX1", "Done"}
	if len(row) != len(want) {
		t.Fatalf("row length = %d, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}
}
