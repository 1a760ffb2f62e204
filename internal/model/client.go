package model

// Category classifies clients for fee and discount purposes.
type Category string

const (
	CategoryIndividual   Category = "individual"
	CategoryOrganization Category = "organization"
)

// Client is a bank client. The ID (e.g. a national ID number) is immutable
// and unique across the registry; the display name may change.
type Client struct {
	ID       string
	Name     string
	Category Category
}
