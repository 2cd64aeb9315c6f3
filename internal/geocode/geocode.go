// Package geocode backfills station coordinates from a fixed table of
// Indian city centres. Each station gets its city's coordinates plus a
// small random offset so co-located stations spread out on a map.
package geocode

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/station"
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

var cityCoordinates = map[string]Coordinates{
	"Mumbai":             {19.0760, 72.8777},
	"Delhi":              {28.6139, 77.2090},
	"Bangalore":          {12.9716, 77.5946},
	"Bengaluru":          {12.9716, 77.5946},
	"Hyderabad":          {17.3850, 78.4867},
	"Ahmedabad":          {23.0225, 72.5714},
	"Chennai":            {13.0827, 80.2707},
	"Kolkata":            {22.5726, 88.3639},
	"Pune":               {18.5204, 73.8567},
	"Surat":              {21.1702, 72.8311},
	"Jaipur":             {26.9124, 75.7873},
	"Lucknow":            {26.8467, 80.9462},
	"Kanpur":             {26.4499, 80.3319},
	"Nagpur":             {21.1458, 79.0882},
	"Indore":             {22.7196, 75.8577},
	"Thane":              {19.2183, 72.9781},
	"Bhopal":             {23.2599, 77.4126},
	"Visakhapatnam":      {17.6868, 83.2185},
	"Pimpri-Chinchwad":   {18.6298, 73.7997},
	"Patna":              {25.5941, 85.1376},
	"Vadodara":           {22.3072, 73.1812},
	"Ghaziabad":          {28.6692, 77.4538},
	"Ludhiana":           {30.9010, 75.8573},
	"Agra":               {27.1767, 78.0081},
	"Nashik":             {19.9975, 73.7898},
	"Faridabad":          {28.4089, 77.3178},
	"Meerut":             {28.9845, 77.7064},
	"Rajkot":             {22.3039, 70.8022},
	"Kalyan-Dombivali":   {19.2403, 73.1305},
	"Vasai-Virar":        {19.4612, 72.7988},
	"Thiruvananthapuram": {8.5241, 76.9366},
	"Chandigarh":         {30.7333, 76.7794},
	"Bhubaneswar":        {20.2961, 85.8245},
	"Ranchi":             {23.3441, 85.3096},
	"Dehradun":           {30.3165, 78.0322},
	"Gandhinagar":        {23.2156, 72.6369},
	"Shimla":             {31.1048, 77.1734},
	"Raipur":             {21.2514, 81.6296},
	"Dispur":             {26.1433, 91.7898},
	"Imphal":             {24.8170, 93.9368},
	"Gurgaon":            {28.4595, 77.0266},
	"Gurugram":           {28.4595, 77.0266},
	"Noida":              {28.5355, 77.3910},
	"Coimbatore":         {11.0168, 76.9558},
	"Kochi":              {9.9312, 76.2673},
	"Mysore":             {12.2958, 76.6394},
	"Mysuru":             {12.2958, 76.6394},
	"Bhavnagar":          {21.7645, 72.1519},
	"Jamnagar":           {22.4707, 70.0577},
	"Junagadh":           {21.5222, 70.4579},
	"Anand":              {22.5645, 72.9289},
	"Mehsana":            {23.5880, 72.3693},
	"Aurangabad":         {19.8762, 75.3433},
	"Kolhapur":           {16.7050, 74.2433},
	"Solapur":            {17.6599, 75.9064},
	"Amravati":           {20.9374, 77.7796},
	"Navi Mumbai":        {19.0330, 73.0297},
	"Madurai":            {9.9252, 78.1198},
	"Tiruchirappalli":    {10.7905, 78.7047},
	"Salem":              {11.6643, 78.1460},
	"Tiruppur":           {11.1085, 77.3411},
	"Vijayawada":         {16.5062, 80.6480},
	"Guntur":             {16.3067, 80.4365},
	"Warangal":           {17.9689, 79.5941},
	"Mangalore":          {12.9141, 74.8560},
	"Varanasi":           {25.3176, 82.9739},
	"Srinagar":           {34.0837, 74.7973},
	"Amritsar":           {31.6340, 74.8723},
	"Jalandhar":          {31.3260, 75.5762},
	"Allahabad":          {25.4358, 81.8463},
	"Prayagraj":          {25.4358, 81.8463},
	"Jodhpur":            {26.2389, 73.0243},
	"Udaipur":            {24.5854, 73.7125},
	"Kota":               {25.2138, 75.8648},
}

// Lookup resolves a city to coordinates. Exact matches win; otherwise
// a substring match either way catches entries like "New Delhi" or
// "Greater Mumbai".
func Lookup(city string) (Coordinates, bool) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Coordinates{}, false
	}

	if coords, ok := cityCoordinates[city]; ok {
		return coords, true
	}

	// Iterate in sorted order so an input matching several entries
	// always resolves to the same one.
	lower := strings.ToLower(city)
	for _, name := range sortedCityNames() {
		nameLower := strings.ToLower(name)
		if strings.Contains(lower, nameLower) || strings.Contains(nameLower, lower) {
			return cityCoordinates[name], true
		}
	}

	return Coordinates{}, false
}

func sortedCityNames() []string {
	names := make([]string, 0, len(cityCoordinates))
	for name := range cityCoordinates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Summary struct {
	Updated        int
	UnknownCities  []string
	TotalProcessed int
}

// Backfill assigns coordinates to every station that lacks them. The
// offset keeps stations within roughly 5km of the city centre.
func Backfill(ctx context.Context, repo station.Repository) (*Summary, error) {
	stations, err := repo.ListMissingCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalProcessed: len(stations)}
	unknown := make(map[string]struct{})

	for _, st := range stations {
		coords, ok := Lookup(st.City)
		if !ok {
			unknown[strings.TrimSpace(st.City)] = struct{}{}
			continue
		}

		lat := coords.Latitude + randOffset()
		lon := coords.Longitude + randOffset()

		if err := repo.UpdateCoordinates(ctx, st.StationID, lat, lon); err != nil {
			logger.Errorf("Failed to update coordinates for station %s: %v", st.StationID, err)
			continue
		}
		summary.Updated++
	}

	for city := range unknown {
		summary.UnknownCities = append(summary.UnknownCities, city)
	}
	sort.Strings(summary.UnknownCities)

	return summary, nil
}

func randOffset() float64 {
	return rand.Float64()*0.1 - 0.05
}
