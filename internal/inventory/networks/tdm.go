package networks

import "github.com/JonMunkholm/FieldInspect/internal/inventory"

func init() {
	inventory.Register(inventory.Definition{
		Network: inventory.TDM,
		Label:   "TDM (Copper)",
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
			{Header: "TDM Cabinet", Value: inventory.FieldCabinet.Value},
			{Header: "TDM Box", Value: inventory.FieldBoxNumber.Value},
		},
		Searchable: []inventory.Field{inventory.FieldExchangeCode, inventory.FieldMSANCode},
	})
}
