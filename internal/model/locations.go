package model

// PlaceholderLocation is the unselected entry of the posting form's location list.
const PlaceholderLocation = "Choose Preferred Location"

// Locations is the curated catalog offered when posting a job. Fetched jobs
// may still carry free-text locations outside it.
var Locations = []string{
	"Remote",
	"Bangalore",
	"Hyderabad",
	"Mumbai",
	"Pune",
	"Chennai",
	"Delhi",
	"Noida",
	"Gurgaon",
	"Kolkata",
	"Ahmedabad",
	"Jaipur",
	"Lucknow",
	"Indore",
	"Bhopal",
	"Surat",
	"Coimbatore",
	"Thiruvananthapuram",
	"Vijayawada",
	"Visakhapatnam",
	"Patna",
	"Chandigarh",
	"Goa",
	"Mysore",
	"Nagpur",
	"Kanpur",
	"Rajkot",
	"Vadodara",
	"Hubli",
	"Madurai",
	"Guwahati",
	"International - USA",
	"International - UK",
	"International - Canada",
	"International - Germany",
	"International - Australia",
	"International - Singapore",
}

// IsCatalogLocation reports whether loc is one of the curated locations.
func IsCatalogLocation(loc string) bool {
	for _, l := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}
