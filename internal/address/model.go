package address

// Address is the shipping / billing address embedded in an order.
type Address struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StreetAddress string `json:"streetAddress"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postalCode"`
	Phone         string `json:"phone"`
}

// Provinces the storefront ships to.
var Provinces = []string{
	"Gauteng",
	"Western Cape",
	"KwaZulu-Natal",
	"Eastern Cape",
	"Free State",
	"Limpopo",
	"Mpumalanga",
	"North West",
	"Northern Cape",
}

func validProvince(p string) bool {
	for _, known := range Provinces {
		if known == p {
			return true
		}
	}
	return false
}
