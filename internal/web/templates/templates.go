// Package templates renders the few HTML views the API serves: the
// status page at / and the error fragment used for non-JSON clients.
//
// Components are written in .templ files; run `templ generate` after
// editing them.
package templates

// NetworkStatus is one row of the status page's inventory table.
type NetworkStatus struct {
	Label    string
	Done     int
	Pending  int
	Total    int
	Progress int
}

// Status is the data shown on the status page.
type Status struct {
	Title         string
	GeneratedAt   string
	Users         int
	ActiveCenters int
	Inspections   int
	LoginsToday   int
	Networks      []NetworkStatus
}
