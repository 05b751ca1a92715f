package networks

import "github.com/JonMunkholm/FieldInspect/internal/inventory"

func init() {
	inventory.Register(inventory.Definition{
		Network: inventory.FTTH,
		Label:   "FTTH (Fiber)",
		Hierarchy: []inventory.Field{
			inventory.FieldSector,
			inventory.FieldRegion,
			inventory.FieldMainExchange,
			inventory.FieldSubExchange,
			inventory.FieldMSANCode,
			inventory.FieldCabinet,
			inventory.FieldBoxNumber,
		},
		Columns: []inventory.Column{
			{Header: "Sector", Value: inventory.FieldSector.Value},
			{Header: "Region", Value: inventory.FieldRegion.Value},
			{Header: "Main Exchange", Value: inventory.FieldMainExchange.Value},
			{Header: "Sub Exchange", Value: inventory.FieldSubExchange.Value},
			{Header: "Exchange Code", Value: inventory.FieldExchangeCode.Value},
			{Header: "MSAN Code", Value: inventory.FieldMSANCode.Value},
			{Header: "Passive Cabinet", Value: inventory.FieldCabinet.Value},
			{Header: "Box Capacity", Value: inventory.FieldBoxCapacity.Value},
			{Header: "Box NO", Value: inventory.FieldBoxNumber.Value},
			{Header: "Status", Value: inventory.FieldVisitStatus.Value},
		},
		Searchable: []inventory.Field{inventory.FieldExchangeCode, inventory.FieldMSANCode, inventory.FieldCabinet},
	})
}
