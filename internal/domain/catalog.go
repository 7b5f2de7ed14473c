package domain

import "sort"

var accommodations = Schema{
	Resource: "accommodations",
	Title:    "Accommodations",
	Singular: "Accommodation",
	Section:  "catalog",
	Key:      "_id",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true, Rules: "max=120"},
		{Name: "type", Label: "Type", Kind: KindText, Required: true},
		{Name: "pricePerNight", Label: "Price per night", Kind: KindNumber, Required: true, Rules: "gte=0"},
		{Name: "capacity", Label: "Capacity", Kind: KindInt, Required: true, Rules: "gte=1"},
		{Name: "status", Label: "Status", Kind: KindSelect, Required: true,
			Options: []string{"Available", "Fully Booked", "Temporarily Closed"}},
		{Name: "amenities", Label: "Amenities", Kind: KindList},
		{Name: "images", Label: "Images", Kind: KindImages},
		{Name: "description", Label: "Description", Kind: KindTextArea},
	},
	Columns:        []string{"name", "type", "pricePerNight", "capacity", "status"},
	Search:         []string{"name", "type", "description"},
	Filters:        []string{"type", "status"},
	FilterDefaults: map[string][]string{"type": {"Hotel", "Villa", "Resort", "Guest House"}, "status": {"Available", "Fully Booked", "Temporarily Closed"}},
	ImageField:     "images",
}

var meals = Schema{
	Resource: "meals",
	Title:    "Meals",
	Singular: "Meal",
	Section:  "catalog",
	Key:      "_id",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true, Rules: "max=120"},
		{Name: "category", Label: "Category", Kind: KindText, Required: true},
		{Name: "price", Label: "Price", Kind: KindNumber, Required: true, Rules: "gte=0"},
		{Name: "availability", Label: "Available", Kind: KindBool},
		{Name: "image", Label: "Image", Kind: KindImage},
		{Name: "description", Label: "Description", Kind: KindTextArea},
	},
	Columns:        []string{"name", "category", "price", "availability"},
	Search:         []string{"name", "category", "description"},
	Filters:        []string{"category"},
	FilterDefaults: map[string][]string{"category": {"Breakfast", "Lunch", "Dinner", "Snack", "Beverage"}},
	ImageField:     "image",
}

var blogs = Schema{
	Resource: "blogs",
	Title:    "Blogs",
	Singular: "Blog",
	Section:  "content",
	Key:      "_id",
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: KindText, Required: true, Rules: "max=200"},
		{Name: "author", Label: "Author", Kind: KindText, Required: true},
		{Name: "content", Label: "Content", Kind: KindTextArea, Required: true},
		{Name: "image", Label: "Cover image", Kind: KindImage},
		{Name: "tags", Label: "Tags", Kind: KindList},
		{Name: "publishedDate", Label: "Published", Kind: KindDate},
	},
	Columns:    []string{"title", "author", "tags", "publishedDate"},
	Search:     []string{"title", "author", "content", "tags"},
	Filters:    []string{"author"},
	ImageField: "image",
}

var vehicles = Schema{
	Resource: "vehicles",
	Title:    "Vehicles",
	Singular: "Vehicle",
	Section:  "catalog",
	Key:      "vehicleID",
	Fields: []Field{
		{Name: "vehicleID", Label: "Vehicle ID", Kind: KindText, Required: true, Rules: "max=40"},
		{Name: "regNo", Label: "Registration no.", Kind: KindText, Required: true},
		{Name: "brand", Label: "Brand", Kind: KindText, Required: true},
		{Name: "type", Label: "Type", Kind: KindText, Required: true},
		{Name: "seatingCapacity", Label: "Seats", Kind: KindInt, Required: true, Rules: "gte=1"},
		{Name: "fuelType", Label: "Fuel", Kind: KindSelect, Options: []string{"Petrol", "Diesel", "Hybrid", "Electric"}},
		{Name: "status", Label: "Status", Kind: KindSelect, Required: true, Options: []string{"Available", "In Service", "Maintenance", "Unavailable"}},
		{Name: "price", Label: "Price per day", Kind: KindNumber, Required: true, Rules: "gte=0"},
		{Name: "images", Label: "Images", Kind: KindImages},
	},
	Columns:        []string{"vehicleID", "regNo", "brand", "type", "seatingCapacity", "status", "price"},
	Search:         []string{"vehicleID", "regNo", "brand", "type"},
	Filters:        []string{"type", "fuelType", "status"},
	FilterDefaults: map[string][]string{"type": {"Car", "Van", "Bus", "SUV"}, "status": {"Available", "In Service", "Maintenance", "Unavailable"}},
	ImageField:     "images",
}

var tourPackages = Schema{
	Resource: "tour-packages",
	Title:    "Tour packages",
	Singular: "Tour package",
	Section:  "catalog",
	Key:      "_id",
	Fields: []Field{
		{Name: "tourPakage_ID", Label: "Package ID", Kind: KindText, Required: true},
		{Name: "name", Label: "Name", Kind: KindText, Required: true, Rules: "max=120"},
		{Name: "type", Label: "Type", Kind: KindText, Required: true},
		{Name: "price", Label: "Price", Kind: KindNumber, Required: true, Rules: "gte=0"},
		{Name: "duration", Label: "Duration", Kind: KindText, Required: true},
		{Name: "images", Label: "Images", Kind: KindImages},
		{Name: "accommodations", Label: "Accommodations", Kind: KindRefs, Ref: "accommodations"},
		{Name: "vehicles", Label: "Vehicles", Kind: KindRefs, Ref: "vehicles"},
		{Name: "meals", Label: "Meals", Kind: KindRefs, Ref: "meals"},
	},
	Columns:        []string{"tourPakage_ID", "name", "type", "price", "duration"},
	Search:         []string{"tourPakage_ID", "name", "type"},
	Filters:        []string{"type"},
	FilterDefaults: map[string][]string{"type": {"Cultural", "Adventure", "Beach", "Wildlife"}},
	ImageField:     "images",
}

var complaints = Schema{
	Resource: "complaints",
	Title:    "Complaints",
	Singular: "Complaint",
	Section:  "support",
	Key:      "_id",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Rules: "email"},
		{Name: "service", Label: "Service", Kind: KindText, Required: true},
		{Name: "category", Label: "Category", Kind: KindText, Required: true},
		{Name: "description", Label: "Description", Kind: KindTextArea, Required: true},
		{Name: "status", Label: "Status", Kind: KindText, Suggest: true,
			Options: []string{"Pending", "In Progress", "Resolved", "Rejected"}},
		{Name: "createdAt", Label: "Created", Kind: KindDate, ReadOnly: true},
	},
	Columns:        []string{"name", "email", "service", "category", "status", "createdAt"},
	Search:         []string{"name", "email", "service", "description"},
	Filters:        []string{"category", "status"},
	FilterDefaults: map[string][]string{"status": {"Pending", "In Progress", "Resolved", "Rejected"}},
}

var feedbacks = Schema{
	Resource: "feedbacks",
	Title:    "Feedback",
	Singular: "Feedback",
	Section:  "support",
	Key:      "_id",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, ReadOnly: true},
		{Name: "email", Label: "Email", Kind: KindEmail, ReadOnly: true},
		{Name: "message", Label: "Message", Kind: KindTextArea, ReadOnly: true},
		{Name: "rating", Label: "Rating", Kind: KindInt, ReadOnly: true, Rules: "gte=0,lte=5"},
		{Name: "createdAt", Label: "Created", Kind: KindDate, ReadOnly: true},
		{Name: "updatedAt", Label: "Updated", Kind: KindDate, ReadOnly: true},
	},
	Columns:        []string{"name", "email", "message", "rating", "createdAt"},
	Search:         []string{"name", "email", "message"},
	Filters:        []string{"rating"},
	FilterDefaults: map[string][]string{"rating": {"0", "1", "2", "3", "4", "5"}},
	ReadOnly:       true,
}

var inventory = Schema{
	Resource: "inventory",
	Title:    "Inventory",
	Singular: "Inventory record",
	Section:  "operations",
	Key:      "inventoryID",
	Fields: []Field{
		{Name: "inventoryID", Label: "Inventory ID", Kind: KindText, Required: true, Rules: "max=40"},
		{Name: "item", Label: "Item ID", Kind: KindRef, Required: true},
		{Name: "type", Label: "Type", Kind: KindSelect, Required: true,
			Options: []string{"Food", "Beverage", "Linen", "Equipment", "Cleaning", "Other"}},
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "category", Label: "Category", Kind: KindText},
		{Name: "quantity", Label: "Quantity", Kind: KindInt, Required: true, Rules: "gte=0"},
		{Name: "unitCost", Label: "Unit cost", Kind: KindNumber, Rules: "gte=0"},
		{Name: "location", Label: "Location", Kind: KindText},
		{Name: "purchaseDate", Label: "Purchased", Kind: KindDate},
		{Name: "expiryDate", Label: "Expires", Kind: KindDate},
		{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"In Stock", "Low Stock", "Out of Stock", "Expired"}},
	},
	Columns:        []string{"inventoryID", "name", "type", "category", "quantity", "location", "status"},
	Search:         []string{"inventoryID", "name", "category", "location"},
	Filters:        []string{"type", "category", "status"},
	FilterDefaults: map[string][]string{"type": {"Food", "Beverage", "Linen", "Equipment", "Cleaning", "Other"}},
	StockStatus:    "status",
}

var catalog = map[string]Schema{}

func init() {
	for _, s := range []Schema{accommodations, meals, blogs, vehicles, tourPackages, complaints, feedbacks, inventory} {
		catalog[s.Resource] = s
	}
}

// Lookup returns the schema registered for a resource path segment.
func Lookup(resource string) (Schema, bool) {
	s, ok := catalog[resource]
	return s, ok
}

// Schemas returns every registered schema ordered by section then title.
func Schemas() []Schema {
	out := make([]Schema, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Sections returns the distinct sidebar sections in display order.
func Sections() []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range Schemas() {
		if !seen[s.Section] {
			seen[s.Section] = true
			out = append(out, s.Section)
		}
	}
	return out
}
